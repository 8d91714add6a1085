// Package git abre o repositório local, enumera a árvore de trabalho e
// carrega o histórico completo (todos os refs) como texto pesquisável.
package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"

	"github.com/lockwhz/leakcheck/internal/logger"
)

var (
	// ErrNotRepository indica que não existe .git no diretório informado.
	ErrNotRepository = errors.New("não é um repositório git")
	// ErrNoCommits indica um repositório sem nenhum commit alcançável.
	ErrNoCommits = errors.New("repositório sem commits")
)

const metadataDir = ".git"

// Repo agrupa o repositório go-git e o filesystem da árvore de trabalho.
type Repo struct {
	Path string
	repo *git.Repository
	fs   billy.Filesystem
}

// Open abre o repositório cujo .git está exatamente em path.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolver caminho %s: %w", path, err)
	}
	repo, err := git.PlainOpen(abs)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, ErrNotRepository)
		}
		return nil, fmt.Errorf("abrir repositório %s: %w", abs, err)
	}
	return &Repo{Path: abs, repo: repo, fs: osfs.New(abs)}, nil
}

// File é um arquivo regular da árvore de trabalho, com caminho relativo.
type File struct {
	Path    string
	Content []byte
}

// SkipFunc decide se um caminho relativo (diretórios terminam em "/") fica
// fora da varredura.
type SkipFunc func(path string) bool

// WorktreeFiles lê todos os arquivos regulares da árvore de trabalho.
// Diretórios .git são sempre ignorados; links simbólicos não são seguidos.
func (r *Repo) WorktreeFiles(skip SkipFunc) ([]File, error) {
	start := time.Now()
	defer logger.Trace("WorktreeFiles", start)

	var files []File
	err := util.Walk(r.fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("percorrer %s: %w", path, err)
		}
		if path == "." {
			return nil
		}
		rel := filepath.ToSlash(path)
		if info.IsDir() {
			if info.Name() == metadataDir || (skip != nil && skip(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || (skip != nil && skip(rel)) {
			return nil
		}
		content, err := readFile(r.fs, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadFile lê um arquivo da árvore de trabalho. Ausência devolve
// os.ErrNotExist para o chamador distinguir.
func (r *Repo) ReadFile(path string) ([]byte, error) {
	return readFile(r.fs, path)
}

func readFile(fs billy.Filesystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("ler %s: %w", path, err)
	}
	return b, nil
}
