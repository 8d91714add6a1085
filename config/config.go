package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// Nomes convencionais usados pelas verificações auxiliares.
const (
	DefaultSecretsFileName = ".env"
	DefaultIgnoreFileName  = ".gitignore"
)

// DefaultExcludes são padrões no formato gitignore removidos da busca na
// árvore de trabalho: metadados do git e os próprios scripts de limpeza.
var DefaultExcludes = []string{
	".git/",
	"verify-cleanup.sh",
	"cleanup-*.sh",
}

type Config struct {
	RepoPath        string   `json:"repoPath"`        // Diretório do repositório a verificar.
	Format          string   `json:"format"`          // "text" ou "json".
	LogLevel        string   `json:"logLevel"`        // Nível do zap.
	LogPath         string   `json:"logPath"`         // Arquivo de log rotacionado (opcional).
	Excludes        []string `json:"excludes"`        // Padrões gitignore ignorados na árvore.
	SecretsFileName string   `json:"secretsFileName"` // Arquivo local de segredos (.env).
	IgnoreFileName  string   `json:"ignoreFileName"`  // Arquivo de ignore (.gitignore).
	CloneURL        string   `json:"cloneURL"`        // Repositório remoto a clonar antes do scan.

	PGHost     string `json:"pgHost"`
	PGPort     string `json:"pgPort"`
	PGName     string `json:"pgName"`
	PGUser     string `json:"pgUser"`
	PGPassword string `json:"-"`
	DBSecretID string `json:"dbSecretID"` // ID do segredo no AWS Secrets Manager.

	AWSRegion   string `json:"awsRegion"`
	SQSQueueURL string `json:"sqsQueueURL"`

	EnableStore   bool `json:"enableStore"`   // Persiste o relatório no Postgres.
	EnableSecrets bool `json:"enableSecrets"` // Senha do banco via AWS Secrets Manager.
	EnableSQS     bool `json:"enableSQS"`     // Publica o veredito na fila SQS.
	EnableVault   bool `json:"enableVault"`   // Credenciais do GitHub para --clone-url.
}

// Default devolve a configuração sem nenhuma variável de ambiente definida.
func Default() Config {
	return Config{
		RepoPath:        ".",
		Format:          "text",
		LogLevel:        "info",
		Excludes:        append([]string(nil), DefaultExcludes...),
		SecretsFileName: DefaultSecretsFileName,
		IgnoreFileName:  DefaultIgnoreFileName,
		PGPort:          "5432",
	}
}

func Load() Config {
	parseBool := func(key string) bool {
		val, err := strconv.ParseBool(os.Getenv(key))
		if err != nil {
			return false
		}
		return val
	}
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	cfg := Default()
	setString(&cfg.RepoPath, "LEAKCHECK_PATH")
	setString(&cfg.Format, "LEAKCHECK_FORMAT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogPath, "LOG_PATH")
	setString(&cfg.PGHost, "PG_HOST")
	setString(&cfg.PGPort, "PG_PORT")
	setString(&cfg.PGName, "PG_NAME")
	setString(&cfg.PGUser, "PG_USER")
	setString(&cfg.PGPassword, "PG_PASSWORD")
	setString(&cfg.DBSecretID, "DB_SECRET_ID")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.SQSQueueURL, "SQS_QUEUE_URL")
	if v := os.Getenv("LEAKCHECK_EXCLUDE"); v != "" {
		cfg.Excludes = append(cfg.Excludes, splitList(v)...)
	}
	cfg.EnableStore = parseBool("ENABLE_STORE")
	cfg.EnableSecrets = parseBool("ENABLE_SECRETS_MANAGER")
	cfg.EnableSQS = parseBool("ENABLE_SQS")
	cfg.EnableVault = parseBool("ENABLE_VAULT")
	return cfg
}

// LoadFile aplica um arquivo YAML sobre cfg. Campos ausentes no arquivo
// mantêm o valor atual; excludes do arquivo são somados aos existentes.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ler config %s: %w", path, err)
	}
	var file Config
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return merge(cfg, file), nil
}

func merge(base, over Config) Config {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&base.RepoPath, over.RepoPath)
	pick(&base.Format, over.Format)
	pick(&base.LogLevel, over.LogLevel)
	pick(&base.LogPath, over.LogPath)
	pick(&base.SecretsFileName, over.SecretsFileName)
	pick(&base.IgnoreFileName, over.IgnoreFileName)
	pick(&base.CloneURL, over.CloneURL)
	pick(&base.PGHost, over.PGHost)
	pick(&base.PGPort, over.PGPort)
	pick(&base.PGName, over.PGName)
	pick(&base.PGUser, over.PGUser)
	pick(&base.DBSecretID, over.DBSecretID)
	pick(&base.AWSRegion, over.AWSRegion)
	pick(&base.SQSQueueURL, over.SQSQueueURL)
	base.Excludes = append(base.Excludes, over.Excludes...)
	base.EnableStore = base.EnableStore || over.EnableStore
	base.EnableSecrets = base.EnableSecrets || over.EnableSecrets
	base.EnableSQS = base.EnableSQS || over.EnableSQS
	base.EnableVault = base.EnableVault || over.EnableVault
	return base
}

func (c Config) Validate() error {
	var errs []error
	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("formato de saída inválido %q (use text ou json)", c.Format))
	}
	if c.RepoPath == "" && c.CloneURL == "" {
		errs = append(errs, errors.New("caminho do repositório vazio"))
	}
	if c.SecretsFileName == "" {
		errs = append(errs, errors.New("nome do arquivo de segredos vazio"))
	}
	if c.EnableStore && (c.PGHost == "" || c.PGName == "" || c.PGUser == "") {
		errs = append(errs, errors.New("ENABLE_STORE exige PG_HOST, PG_NAME e PG_USER"))
	}
	if c.EnableSecrets && c.DBSecretID == "" {
		errs = append(errs, errors.New("ENABLE_SECRETS_MANAGER exige DB_SECRET_ID"))
	}
	if c.EnableSQS && c.SQSQueueURL == "" {
		errs = append(errs, errors.New("ENABLE_SQS exige SQS_QUEUE_URL"))
	}
	return errors.Join(errs...)
}

func (c Config) PostgresConnString() string {
	// Exemplo: "host=localhost port=5432 dbname=mydb user=myuser password=mypass sslmode=disable"
	return "host=" + c.PGHost + " port=" + c.PGPort + " dbname=" + c.PGName + " user=" + c.PGUser + " password=" + c.PGPassword + " sslmode=disable"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
