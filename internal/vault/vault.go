package vault

import (
	"errors"
	"os"
)

// VaultClient fornece as credenciais usadas no clone de repositórios remotos.
type VaultClient interface {
	GetGitHubCredentials() (*GitHubCredentials, error)
}

type GitHubCredentials struct {
	Username string
	Token    string
}

var ErrMissingCredentials = errors.New("credenciais do GitHub não encontradas")

// EnvVaultClient lê GITHUB_USERNAME e GITHUB_TOKEN do ambiente.
type EnvVaultClient struct{}

func (v *EnvVaultClient) GetGitHubCredentials() (*GitHubCredentials, error) {
	username := os.Getenv("GITHUB_USERNAME")
	token := os.Getenv("GITHUB_TOKEN")
	if username == "" || token == "" {
		return nil, ErrMissingCredentials
	}
	return &GitHubCredentials{
		Username: username,
		Token:    token,
	}, nil
}

// NoOpVaultClient não devolve credenciais: o clone é anônimo.
type NoOpVaultClient struct{}

func (v *NoOpVaultClient) GetGitHubCredentials() (*GitHubCredentials, error) {
	return nil, nil
}
