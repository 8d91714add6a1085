package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockwhz/leakcheck/internal/git/gittest"
	"github.com/lockwhz/leakcheck/models"
)

// clearEnv garante que nenhum destino externo seja habilitado pelo ambiente.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEAKCHECK_PATH", "LEAKCHECK_FORMAT", "LEAKCHECK_EXCLUDE", "LOG_PATH",
		"ENABLE_STORE", "ENABLE_SECRETS_MANAGER", "ENABLE_SQS", "ENABLE_VAULT",
	} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func cleanRepo(t *testing.T) *gittest.Fixture {
	t.Helper()
	fx := gittest.NewRepo(t)
	fx.Write(".gitignore", ".env\n")
	fx.Write("README.md", "# demo\n")
	fx.Commit("initial")
	return fx
}

func TestCleanRepositoryExitsZero(t *testing.T) {
	fx := cleanRepo(t)

	code, out, errOut := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitClean, code, errOut)
	assert.Contains(t, out, "RESULT: CLEAN")
	assert.NotContains(t, out, "[WARN]")
	assert.NotContains(t, out, "[FAIL]")
}

func TestTreeMatchExitsOne(t *testing.T) {
	fx := gittest.NewRepo(t)
	fx.Write(".gitignore", ".env\n")
	fx.Write("README.md", "# demo\n")
	fx.Commit("initial")
	fx.WriteUntracked("config.txt", `api_key = "abcdefghijklmnopqrstu"`+"\n")

	code, out, _ := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, out, "[FAIL] Generic API key assignment (found in current files)")
	assert.Contains(t, out, "RESULT: ISSUES FOUND")
	assert.Contains(t, out, "git filter-repo")
}

func TestSecretsFileInHistoryExitsOne(t *testing.T) {
	fx := cleanRepo(t)
	fx.Write("app/.env", "DEBUG=true\n")
	fx.Commit("add env")
	fx.Remove("app/.env")
	fx.Commit("remove env")

	code, out, _ := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, out, "[FAIL] .env files found in history:")
	assert.Contains(t, out, "app/.env")
}

func TestMissingIgnoreEntryOnlyWarns(t *testing.T) {
	fx := gittest.NewRepo(t)
	fx.Write("README.md", "# demo\n")
	fx.Commit("initial")

	code, out, _ := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitClean, code)
	assert.Contains(t, out, "[WARN] .gitignore not found")
}

func TestNotARepositoryIsPreconditionFailure(t *testing.T) {
	code, out, errOut := runCLI(t, "--path", t.TempDir())
	assert.Equal(t, ExitIssues, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "PRECONDITION FAILED")
}

func TestRepositoryWithoutCommitsIsPreconditionFailure(t *testing.T) {
	fx := gittest.NewRepo(t)
	fx.WriteUntracked("README.md", "# demo\n")

	code, out, errOut := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitIssues, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "PRECONDITION FAILED")
	assert.NotContains(t, errOut, "RESULT")
}

func TestJSONFormat(t *testing.T) {
	fx := cleanRepo(t)

	code, out, _ := runCLI(t, "--path", fx.Dir, "--format", "json")
	require.Equal(t, ExitClean, code)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Clean)
	assert.Equal(t, fx.Dir, report.Repository)
	assert.Len(t, report.Results, 7)
	assert.Equal(t, 1, report.CommitsScanned)
}

func TestConfigFileOverlaysEnvironment(t *testing.T) {
	fx := cleanRepo(t)
	cfgPath := filepath.Join(t.TempDir(), "leakcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("repoPath: "+fx.Dir+"\nformat: json\n"), 0o644))

	code, out, _ := runCLI(t, "--config", cfgPath)
	require.Equal(t, ExitClean, code)
	assert.True(t, json.Valid([]byte(out)))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	fx := cleanRepo(t)
	cfgPath := filepath.Join(t.TempDir(), "leakcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\n"), 0o644))

	code, out, _ := runCLI(t, "--config", cfgPath, "--path", fx.Dir, "--format", "text")
	require.Equal(t, ExitClean, code)
	assert.Contains(t, out, "RESULT: CLEAN")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "xml"}},
		{"unknown flag", []string{"--nope"}},
		{"unexpected argument", []string{"extra"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, ExitUsageError, code)
		})
	}
}

func TestInvalidFormatFromEnvironmentIsUsageError(t *testing.T) {
	fx := cleanRepo(t)
	clearEnv(t)
	t.Setenv("LEAKCHECK_FORMAT", "yaml")

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--path", fx.Dir}, &stdout, &stderr)
	assert.Equal(t, ExitUsageError, code)
	assert.Empty(t, stdout.String())
	assert.NotContains(t, stderr.String(), "PRECONDITION FAILED")
}

func TestSecretOnlyReachableFromTagExitsOne(t *testing.T) {
	fx := gittest.NewRepo(t)
	fx.Write(".gitignore", ".env\n")
	base := fx.Commit("initial")
	fx.Write("keys.py", "OPENAI = 'sk-"+"abcdefghijklmnopqrstuvwxABCDEFGHIJKLMNOPQRSTUVWX'\n")
	fx.Tag("v1", fx.Commit("keys"))
	fx.ResetBranch(fx.Head(), base)
	fx.Discard("keys.py")

	code, out, _ := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitIssues, code)
	assert.Contains(t, out, "[FAIL] OpenAI key (found in git history)")
}

func TestRepeatedRunsAreIdentical(t *testing.T) {
	fx := cleanRepo(t)
	fx.Write("keys.py", "OPENAI = 'sk-"+"abcdefghijklmnopqrstuvwxABCDEFGHIJKLMNOPQRSTUVWX'\n")
	fx.Commit("keys")

	code1, out1, _ := runCLI(t, "--path", fx.Dir)
	code2, out2, _ := runCLI(t, "--path", fx.Dir)
	assert.Equal(t, ExitIssues, code1)
	assert.Equal(t, code1, code2)
	assert.Equal(t, out1, out2)
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, ExitClean, code)
	assert.Equal(t, "leakcheck version "+version+"\n", out)
}
