package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lockwhz/leakcheck/config"
	"github.com/lockwhz/leakcheck/internal/db"
	"github.com/lockwhz/leakcheck/internal/git"
	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/internal/output"
	"github.com/lockwhz/leakcheck/internal/scan"
	"github.com/lockwhz/leakcheck/internal/secrets"
	"github.com/lockwhz/leakcheck/internal/services"
	"github.com/lockwhz/leakcheck/internal/vault"
)

type scanOptions struct {
	path       string
	format     string
	configFile string
	cloneURL   string
	verbose    bool

	stdout io.Writer
	stderr io.Writer
}

func addScanFlags(cmd *cobra.Command, opts *scanOptions) {
	cmd.Flags().StringVar(&opts.path, "path", "", "Diretório do repositório (padrão: diretório atual)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Formato do relatório (text, json)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Arquivo YAML de configuração")
	cmd.Flags().StringVar(&opts.cloneURL, "clone-url", "", "Clona o repositório remoto e verifica o clone")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Logs em nível debug")
}

// buildConfig aplica ambiente, arquivo e flags, nesta ordem.
func buildConfig(opts *scanOptions) (config.Config, error) {
	cfg := config.Load()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(cfg, opts.configFile); err != nil {
			return cfg, err
		}
	}
	if opts.path != "" {
		cfg.RepoPath = opts.path
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.cloneURL != "" {
		cfg.CloneURL = opts.cloneURL
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// runScan devolve o código de saída. Erros devolvidos são de uso (flags ou
// configuração inválidas); falhas de pré-condição viram ExitIssues.
func runScan(cmd *cobra.Command, opts *scanOptions) (int, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return ExitUsageError, err
	}
	writer, err := output.GetWriter(cfg.Format)
	if err != nil {
		return ExitUsageError, err
	}

	if err := logger.Init(logger.Options{Level: cfg.LogLevel, LogPath: cfg.LogPath}); err != nil {
		fmt.Fprintf(opts.stderr, "WARNING: nível de log inválido %q, usando info\n", cfg.LogLevel)
	}
	defer logger.Sync()
	log := logger.GetSugaredLogger()

	ctx := cmd.Context()
	repoPath := cfg.RepoPath
	if cfg.CloneURL != "" {
		dir, err := cloneRepo(ctx, cfg)
		if err != nil {
			return preconditionFailed(opts.stderr, "clone", err), nil
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Warnf("erro ao remover clone %s: %v", dir, err)
			}
		}()
		repoPath = dir
	}

	repo, err := git.Open(repoPath)
	if err != nil {
		return preconditionFailed(opts.stderr, "repositório", err), nil
	}
	scanner := scan.NewPatternScanner(repo, cfg)
	if cfg.CloneURL != "" {
		scanner.Repository = cfg.CloneURL
	}

	svc := &services.ProcessService{Scanner: scanner}
	if cfg.EnableStore {
		if store, err := openStore(ctx, cfg); err != nil {
			log.Errorf("relatório não será persistido: %v", err)
		} else {
			defer store.Close()
			svc.Store = store
		}
	}
	if cfg.EnableSQS {
		if producer, err := services.NewSQSProducer(ctx, cfg.AWSRegion, cfg.SQSQueueURL); err != nil {
			log.Errorf("veredito não será publicado: %v", err)
		} else {
			svc.Notifier = producer
		}
	}

	report, err := svc.Process(ctx)
	if err != nil {
		return preconditionFailed(opts.stderr, "verificação", err), nil
	}
	if err := writer.Write(opts.stdout, report); err != nil {
		log.Errorf("erro ao escrever relatório: %v", err)
		return ExitIssues, nil
	}
	if report.Clean {
		return ExitClean, nil
	}
	return ExitIssues, nil
}

func preconditionFailed(stderr io.Writer, step string, err error) int {
	var pe *scan.PreconditionError
	if !errors.As(err, &pe) {
		err = &scan.PreconditionError{Step: step, Err: err}
	}
	fmt.Fprintf(stderr, "PRECONDITION FAILED: %v\n", err)
	if errors.Is(err, git.ErrNotRepository) || errors.Is(err, git.ErrNoCommits) {
		fmt.Fprintln(stderr, "Execute o leakcheck na raiz de um repositório git com pelo menos um commit.")
	}
	return ExitIssues
}

func cloneRepo(ctx context.Context, cfg config.Config) (string, error) {
	var v vault.VaultClient = &vault.NoOpVaultClient{}
	if cfg.EnableVault {
		v = &vault.EnvVaultClient{}
	}
	client := &git.GoGitClient{Vault: v}
	return client.CloneRepo(ctx, cfg.CloneURL)
}

// passwordSource escolhe de onde vem a senha do banco e o nome do segredo.
func passwordSource(ctx context.Context, cfg config.Config) (secrets.SecretsManager, string, error) {
	if cfg.EnableSecrets {
		sm, err := secrets.NewAWSSecretsManager(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, "", err
		}
		return sm, cfg.DBSecretID, nil
	}
	return &secrets.EnvSecretsManager{}, "PG_PASSWORD", nil
}

func openStore(ctx context.Context, cfg config.Config) (*db.Database, error) {
	sm, name, err := passwordSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	password, err := sm.GetSecret(ctx, name)
	switch {
	case err == nil:
		cfg.PGPassword = password
	case errors.Is(err, secrets.ErrSecretNotFound) && !cfg.EnableSecrets:
		// Sem PG_PASSWORD: conexão sem senha (trust/peer).
	default:
		return nil, fmt.Errorf("senha do banco: %w", err)
	}

	store := db.NewDatabase()
	if err := store.Connect(ctx, cfg.PostgresConnString()); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
