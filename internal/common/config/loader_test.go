package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
app:
  name: "chatbot-server"
database:
  postgres:
    host: "localhost"
    port: 5432
    database: "chatbot"
    user: "svc"
    password: "secret"
  redis:
    address: "localhost:6379"
apis:
  completion:
    api_key: "test-key"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "https://api.groq.com", cfg.APIs.Completion.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.APIs.Completion.Model)
	assert.Equal(t, 60000, cfg.APIs.Completion.Timeout)
	assert.Equal(t, 3600, cfg.Database.Redis.AnalysisTTL)
	assert.Equal(t, "./data", cfg.Storage.BaseDir)
	assert.Equal(t, "./configs/pipeline-registry.json", cfg.Registry.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MissingAPIKey(t *testing.T) {
	broken := `
database:
  postgres:
    host: "localhost"
    database: "chatbot"
    user: "svc"
  redis:
    address: "localhost:6379"
`
	t.Setenv("COMPLETION_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	_, err := LoadFromFile(writeConfig(t, broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestLoadFromFile_EnvFallbackForAPIKey(t *testing.T) {
	noKey := `
database:
  postgres:
    host: "localhost"
    database: "chatbot"
    user: "svc"
  redis:
    address: "localhost:6379"
`
	t.Setenv("COMPLETION_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "from-env")

	cfg, err := LoadFromFile(writeConfig(t, noKey))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIs.Completion.APIKey)
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "svc", Password: "pw",
		Database: "chatbot", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=chatbot sslmode=disable", p.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestGetPipelineConfig_Fallback(t *testing.T) {
	cfg := &Config{Pipelines: map[string]PipelineConfig{
		"csv-analysis": {Enabled: true, Timeout: 30000, MaxRetries: 1},
	}}

	found := GetPipelineConfig(cfg, "csv-analysis")
	assert.Equal(t, 30000, found.Timeout)

	missing := GetPipelineConfig(cfg, "unknown")
	assert.Equal(t, 60000, missing.Timeout)
	assert.Equal(t, 2, missing.MaxRetries)
	assert.True(t, missing.Enabled)
}

func TestIsPipelineEnabled(t *testing.T) {
	cfg := &Config{Pipelines: map[string]PipelineConfig{
		"pdf-extraction": {Enabled: false},
	}}
	assert.False(t, IsPipelineEnabled(cfg, "pdf-extraction"))
	assert.True(t, IsPipelineEnabled(cfg, "anything-else"))
}
