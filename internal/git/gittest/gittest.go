// Package gittest monta repositórios git em disco para os testes.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type Fixture struct {
	t     testing.TB
	Dir   string
	Repo  *git.Repository
	clock time.Time
}

// NewRepo inicializa um repositório vazio (sem commits) em um diretório temporário.
func NewRepo(t testing.TB) *Fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "init repo")
	return &Fixture{
		t:     t,
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *Fixture) worktree() *git.Worktree {
	f.t.Helper()
	wt, err := f.Repo.Worktree()
	require.NoError(f.t, err, "worktree")
	return wt
}

// Write grava o arquivo e o adiciona ao índice.
func (f *Fixture) Write(path, content string) {
	f.t.Helper()
	f.WriteUntracked(path, content)
	_, err := f.worktree().Add(filepath.ToSlash(path))
	require.NoError(f.t, err, "add %s", path)
}

// WriteUntracked grava o arquivo sem adicioná-lo ao índice.
func (f *Fixture) WriteUntracked(path, content string) {
	f.t.Helper()
	full := filepath.Join(f.Dir, path)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644), "write %s", path)
}

// Remove apaga o arquivo e registra a remoção no índice.
func (f *Fixture) Remove(path string) {
	f.t.Helper()
	_, err := f.worktree().Remove(filepath.ToSlash(path))
	require.NoError(f.t, err, "remove %s", path)
}

// Discard apaga o arquivo só do disco, se ainda existir.
func (f *Fixture) Discard(path string) {
	f.t.Helper()
	err := os.Remove(filepath.Join(f.Dir, path))
	if err != nil && !os.IsNotExist(err) {
		require.NoError(f.t, err, "discard %s", path)
	}
}

// Commit grava o índice atual com autor e data determinísticos.
func (f *Fixture) Commit(msg string) plumbing.Hash {
	f.t.Helper()
	f.clock = f.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: f.clock}
	h, err := f.worktree().Commit(msg, &git.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	require.NoError(f.t, err, "commit %q", msg)
	return h
}

// Branch cria uma branch apontando para o HEAD atual.
func (f *Fixture) Branch(name string) {
	f.t.Helper()
	head, err := f.Repo.Head()
	require.NoError(f.t, err, "head")
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	require.NoError(f.t, f.Repo.Storer.SetReference(ref), "branch %s", name)
}

// Checkout troca a árvore de trabalho para a branch informada.
func (f *Fixture) Checkout(name string) {
	f.t.Helper()
	err := f.worktree().Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)})
	require.NoError(f.t, err, "checkout %s", name)
}

// Head devolve o nome curto da branch atual.
func (f *Fixture) Head() string {
	f.t.Helper()
	head, err := f.Repo.Head()
	require.NoError(f.t, err, "head")
	return head.Name().Short()
}

// Tag cria uma tag anotada apontando para o commit informado.
func (f *Fixture) Tag(name string, target plumbing.Hash) {
	f.t.Helper()
	f.clock = f.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: f.clock}
	_, err := f.Repo.CreateTag(name, target, &git.CreateTagOptions{Tagger: sig, Message: "release " + name})
	require.NoError(f.t, err, "tag %s", name)
}

// ResetBranch move a branch para o commit informado sem tocar na árvore.
func (f *Fixture) ResetBranch(name string, target plumbing.Hash) {
	f.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), target)
	require.NoError(f.t, f.Repo.Storer.SetReference(ref), "reset %s", name)
}
