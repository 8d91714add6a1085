package git

import (
	"context"
	"fmt"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	httpAuth "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/internal/vault"
)

// GoGitClient clona repositórios remotos para verificação local.
type GoGitClient struct {
	Vault vault.VaultClient
	// TempDir é o diretório base dos clones; vazio usa os.TempDir().
	TempDir string
}

// CloneRepo faz um clone completo (todas as branches e o histórico inteiro)
// em um diretório temporário. O chamador remove o diretório devolvido.
func (c *GoGitClient) CloneRepo(ctx context.Context, repoURL string) (string, error) {
	start := time.Now()
	defer logger.Trace("CloneRepo", start)

	auth, err := c.auth()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(c.TempDir, "leakcheck-clone-*")
	if err != nil {
		return "", fmt.Errorf("mkdir tmp: %w", err)
	}
	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:  repoURL,
		Auth: auth,
		Tags: git.AllTags,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("git clone falhou: %w", err)
	}
	logger.GetSugaredLogger().Debugf("GoGitClient: %s clonado em %s", repoURL, dir)
	return dir, nil
}

func (c *GoGitClient) auth() (transport.AuthMethod, error) {
	if c.Vault == nil {
		return nil, nil
	}
	creds, err := c.Vault.GetGitHubCredentials()
	if err != nil {
		return nil, fmt.Errorf("erro ao recuperar credenciais do GitHub: %w", err)
	}
	if creds == nil {
		return nil, nil
	}
	return &httpAuth.BasicAuth{
		Username: creds.Username,
		Password: creds.Token,
	}, nil
}
