package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	value string
	err   error
	asked string
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv("LEAKCHECK_TEST_SECRET", "s3cr3t")
	m := &EnvSecretsManager{}

	v, err := m.GetSecret(context.Background(), "LEAKCHECK_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v)

	_, err = m.GetSecret(context.Background(), "LEAKCHECK_TEST_SECRET_MISSING")
	require.ErrorIs(t, err, ErrSecretNotFound)
}

func TestAWSSecretsManager(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeSecretsAPI
		want    string
		wantErr error
	}{
		{name: "plain string", api: &fakeSecretsAPI{value: "pw"}, want: "pw"},
		{name: "rds json", api: &fakeSecretsAPI{value: `{"username":"u","password":"from-json"}`}, want: "from-json"},
		{name: "json without password", api: &fakeSecretsAPI{value: `{"token":"x"}`}, want: `{"token":"x"}`},
		{name: "empty", api: &fakeSecretsAPI{value: ""}, wantErr: ErrSecretNotFound},
		{name: "not found", api: &fakeSecretsAPI{err: &types.ResourceNotFoundException{Message: aws.String("nope")}}, wantErr: ErrSecretNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &AWSSecretsManager{Client: tt.api}
			got, err := m.GetSecret(context.Background(), "db/leakcheck")
			assert.Equal(t, "db/leakcheck", tt.api.asked)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAWSSecretsManagerOtherError(t *testing.T) {
	boom := errors.New("throttled")
	m := &AWSSecretsManager{Client: &fakeSecretsAPI{err: boom}}
	_, err := m.GetSecret(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSecretNotFound)
}
