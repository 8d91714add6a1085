package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// ErrSecretNotFound indica que o segredo não existe na origem consultada.
var ErrSecretNotFound = errors.New("segredo não encontrado")

// SecretsManager define a interface para recuperar segredos.
type SecretsManager interface {
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// EnvSecretsManager lê segredos das variáveis de ambiente.
type EnvSecretsManager struct{}

func (s *EnvSecretsManager) GetSecret(_ context.Context, secretName string) (string, error) {
	secret := os.Getenv(secretName)
	if secret == "" {
		return "", fmt.Errorf("%s: %w", secretName, ErrSecretNotFound)
	}
	return secret, nil
}

// SecretsManagerAPI é o subconjunto do cliente AWS usado aqui; permite fakes nos testes.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager busca segredos no AWS Secrets Manager.
type AWSSecretsManager struct {
	Client SecretsManagerAPI
}

func NewAWSSecretsManager(ctx context.Context, region string) (*AWSSecretsManager, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("carregar configuração AWS: %w", err)
	}
	return &AWSSecretsManager{Client: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecret devolve o SecretString. Segredos no formato RDS
// ({"username":..., "password":...}) devolvem só o campo password.
func (s *AWSSecretsManager) GetSecret(ctx context.Context, secretName string) (string, error) {
	out, err := s.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var rnf *types.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return "", fmt.Errorf("%s: %w", secretName, ErrSecretNotFound)
		}
		return "", fmt.Errorf("GetSecretValue %s: %w", secretName, err)
	}
	value := aws.ToString(out.SecretString)
	if value == "" {
		return "", fmt.Errorf("%s: SecretString vazio: %w", secretName, ErrSecretNotFound)
	}

	var rds struct {
		Password string `json:"password"`
	}
	if json.Unmarshal([]byte(value), &rds) == nil && rds.Password != "" {
		return rds.Password, nil
	}
	return value, nil
}
