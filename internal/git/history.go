package git

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/lockwhz/leakcheck/internal/logger"
)

// CommitPatch é a saída de `git log --all -p --name-only` para um commit:
// cabeçalho, mensagem e patch contra o primeiro pai, mais os arquivos
// alterados. Commits de merge não têm patch nem arquivos.
type CommitPatch struct {
	Hash  string
	Text  []byte
	Files []string
}

// History carrega todos os commits alcançáveis a partir de qualquer ref
// (branches, tags anotadas ou leves, remotes, HEAD destacado), ordenados por
// hash. Zero commits devolve ErrNoCommits.
func (r *Repo) History(ctx context.Context) ([]CommitPatch, error) {
	start := time.Now()
	defer logger.Trace("History", start)

	tips, err := r.tips()
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	var out []CommitPatch
	for _, tip := range tips {
		iter := object.NewCommitPreorderIter(tip, seen, nil)
		err := iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seen[c.Hash] = true
			cp, err := commitPatch(ctx, c)
			if err != nil {
				return fmt.Errorf("commit %s: %w", c.Hash, err)
			}
			out = append(out, cp)
			return nil
		})
		iter.Close()
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ErrNoCommits
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out, nil
}

// tips resolve cada ref para o commit que ela aponta. Tags anotadas são
// descascadas até o commit; refs para árvores ou blobs são ignoradas.
func (r *Repo) tips() ([]*object.Commit, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listar refs: %w", err)
	}
	defer refs.Close()

	var tips []*object.Commit
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		c, err := r.peel(ref.Hash())
		if err != nil {
			return fmt.Errorf("ref %s: %w", ref.Name(), err)
		}
		if c != nil {
			tips = append(tips, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tips, func(i, j int) bool { return tips[i].Hash.String() < tips[j].Hash.String() })
	return tips, nil
}

func (r *Repo) peel(h plumbing.Hash) (*object.Commit, error) {
	for {
		obj, err := r.repo.Object(plumbing.AnyObject, h)
		if err != nil {
			return nil, err
		}
		switch o := obj.(type) {
		case *object.Commit:
			return o, nil
		case *object.Tag:
			h = o.Target
		default:
			return nil, nil
		}
	}
}

func commitPatch(ctx context.Context, c *object.Commit) (CommitPatch, error) {
	var buf bytes.Buffer
	buf.WriteString(c.String())
	cp := CommitPatch{Hash: c.Hash.String()}

	if c.NumParents() > 1 {
		cp.Text = buf.Bytes()
		return cp, nil
	}

	tree, err := c.Tree()
	if err != nil {
		return cp, fmt.Errorf("tree: %w", err)
	}
	var parentTree *object.Tree
	if c.NumParents() == 1 {
		parent, err := c.Parent(0)
		if err != nil {
			return cp, fmt.Errorf("parent: %w", err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return cp, fmt.Errorf("parent tree: %w", err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return cp, fmt.Errorf("diff: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return cp, fmt.Errorf("patch: %w", err)
	}
	buf.WriteString(patch.String())

	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		cp.Files = append(cp.Files, name)
	}
	cp.Text = buf.Bytes()
	return cp, nil
}
