package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test-key
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test-key", cfg.LLM.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields keep their defaults.
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Assistant.MaxHistory)
	assert.Equal(t, 60, cfg.RateLimits.RequestsPerMinute)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("TRUTHLENS_TEST_KEY", "from-env")

	path := writeConfig(t, `
llm:
  provider: gemini
  model: gemini-1.5-flash
  api_key: ${TRUTHLENS_TEST_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoadMissingCredentialFails(t *testing.T) {
	// The variable is not set, so the placeholder survives interpolation
	// and validation rejects it at startup.
	path := writeConfig(t, `
llm:
  provider: gemini
  model: gemini-1.5-flash
  api_key: ${TRUTHLENS_UNSET_KEY}
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.LLM.APIKey = "test-key"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid port",
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: "unsupported database driver",
		},
		{
			name:    "unsupported provider",
			mutate:  func(c *Config) { c.LLM.Provider = "ollama" },
			wantErr: "unsupported LLM provider",
		},
		{
			name:    "empty api key",
			mutate:  func(c *Config) { c.LLM.APIKey = "" },
			wantErr: "API key is required",
		},
		{
			name:    "uninterpolated api key",
			mutate:  func(c *Config) { c.LLM.APIKey = "${GEMINI_API_KEY}" },
			wantErr: "API key is required",
		},
		{
			name:    "bad fetch size",
			mutate:  func(c *Config) { c.Fetch.MaxBytes = 0 },
			wantErr: "max_bytes must be positive",
		},
		{
			name:    "bad assistant history",
			mutate:  func(c *Config) { c.Assistant.MaxHistory = 0 },
			wantErr: "max_history must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSampleRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "sample-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "sample-key", cfg.LLM.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestInterpolateEnvVars(t *testing.T) {
	t.Setenv("TRUTHLENS_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"key: ${TRUTHLENS_SET}", "key: value"},
		{"key: ${TRUTHLENS_NOT_SET}", "key: ${TRUTHLENS_NOT_SET}"},
		{"plain text", "plain text"},
		{"${TRUTHLENS_SET}/${TRUTHLENS_SET}", "value/value"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, interpolateEnvVars(tt.in), "in=%q", tt.in)
	}
}
