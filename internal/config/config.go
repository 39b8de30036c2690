// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	LLM        LLMConfig       `yaml:"llm"`
	Fetch      FetchConfig     `yaml:"fetch"`
	Assistant  AssistantConfig `yaml:"assistant"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port     int  `yaml:"port"`
	EnableUI bool `yaml:"enable_ui"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite
	Path   string `yaml:"path"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai, anthropic
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// FetchConfig controls how article URLs are retrieved.
type FetchConfig struct {
	UserAgent      string `yaml:"user_agent"`
	MaxBytes       int64  `yaml:"max_bytes"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AssistantConfig controls the conversational assistant.
type AssistantConfig struct {
	MaxHistory int `yaml:"max_history"` // exchanges kept per session
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			EnableUI: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/truthlens.db",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
		},
		Fetch: FetchConfig{
			UserAgent:      "TruthLens/1.0 (+https://github.com/truthlens/truthlens)",
			MaxBytes:       2 << 20, // 2 MiB
			TimeoutSeconds: 15,
		},
		Assistant: AssistantConfig{
			MaxHistory: 10,
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# TruthLens Configuration
# See documentation for all options

server:
  port: 8080
  enable_ui: true

database:
  driver: sqlite
  path: ./data/truthlens.db

llm:
  provider: gemini  # gemini, openai, anthropic
  model: gemini-1.5-flash
  api_key: ${GEMINI_API_KEY}

  # For OpenAI:
  # provider: openai
  # model: gpt-4o-mini
  # api_key: ${OPENAI_API_KEY}

  # For Anthropic Claude:
  # provider: anthropic
  # model: claude-3-haiku-20240307
  # api_key: ${ANTHROPIC_API_KEY}

fetch:
  user_agent: "TruthLens/1.0 (+https://github.com/truthlens/truthlens)"
  max_bytes: 2097152
  timeout_seconds: 15

assistant:
  max_history: 10

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	validProviders := map[string]bool{"gemini": true, "openai": true, "anthropic": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	// Every supported provider is a hosted API; a missing credential is a
	// startup error, not something to discover on the first request.
	if c.LLM.APIKey == "" || strings.HasPrefix(c.LLM.APIKey, "${") {
		return fmt.Errorf("%s API key is required", c.LLM.Provider)
	}

	if c.Fetch.MaxBytes < 1 {
		return fmt.Errorf("fetch max_bytes must be positive")
	}
	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch timeout_seconds must be positive")
	}
	if c.Assistant.MaxHistory < 1 {
		return fmt.Errorf("assistant max_history must be positive")
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
