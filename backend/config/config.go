package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported LLM providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Prompts PromptsConfig `yaml:"prompts"`
	Log     LogConfig     `yaml:"log"`
	OTel    OTelConfig    `yaml:"otel"`
}

type ServerConfig struct {
	Port          int    `yaml:"port"`
	StaticDir     string `yaml:"static_dir"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes"`
	Version       string `yaml:"version"`
	ReleaseMode   bool   `yaml:"release_mode"`
	ShutdownGrace int    `yaml:"shutdown_grace_seconds"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai
	APIKey   string `yaml:"-"`        // env only
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`

	// Credentials starting with DelegatedPrefix are sent as delegated tokens
	// together with DelegatedHeaders and DelegatedPreamble. Anthropic always
	// detects them, falling back to "sk-ant-oat" when unset; other providers
	// detect them only when a prefix is configured.
	DelegatedPrefix   string            `yaml:"delegated_prefix"`
	DelegatedHeaders  map[string]string `yaml:"delegated_headers"`
	DelegatedPreamble string            `yaml:"delegated_preamble"`
}

type PromptsConfig struct {
	Jurisdiction        string `yaml:"jurisdiction"`
	DefaultContractType string `yaml:"default_contract_type"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OTelConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Headers        string `yaml:"headers"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"-"`
}

// Load reads the optional YAML file at path, then applies .env and process
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// env-only deployment
	default:
		return nil, err
	}

	_ = godotenv.Load(".env")
	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.StaticDir = getEnv("STATIC_DIR", c.Server.StaticDir)

	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.OTel.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTel.Endpoint)
	c.OTel.Headers = getEnv("OTEL_EXPORTER_OTLP_HEADERS", c.OTel.Headers)
	c.OTel.ServiceName = getEnv("OTEL_SERVICE_NAME", c.OTel.ServiceName)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3456
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./public"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 10 << 20
	}
	if c.Server.Version == "" {
		c.Server.Version = "3.0.0"
	}
	if c.Server.ShutdownGrace == 0 {
		c.Server.ShutdownGrace = 5
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderAnthropic
	}
	// The credential variable follows the provider, so it is read after defaults.
	c.LLM.APIKey = os.Getenv(c.LLM.CredentialEnv())

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-4o"
		}
	default:
		if c.LLM.Model == "" {
			c.LLM.Model = "claude-sonnet-4-6"
		}
		if c.LLM.DelegatedPrefix == "" {
			c.LLM.DelegatedPrefix = "sk-ant-oat"
		}
		if c.LLM.DelegatedHeaders == nil {
			c.LLM.DelegatedHeaders = map[string]string{
				"accept":         "application/json",
				"anthropic-beta": "claude-code-20250219,oauth-2025-04-20,fine-grained-tool-streaming-2025-05-14",
				"user-agent":     "claude-cli/2.1.2 (external, cli)",
				"x-app":          "cli",
			}
		}
		if c.LLM.DelegatedPreamble == "" {
			c.LLM.DelegatedPreamble = "You are Claude Code, Anthropic's official CLI for Claude."
		}
	}

	if c.Prompts.Jurisdiction == "" {
		c.Prompts.Jurisdiction = "French"
	}
	if c.Prompts.DefaultContractType == "" {
		c.Prompts.DefaultContractType = "Service provision"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.OTel.ServiceName == "" {
		c.OTel.ServiceName = "contratclair"
	}
	c.OTel.ServiceVersion = c.Server.Version
}

// CredentialEnv returns the environment variable holding the provider credential
func (c LLMConfig) CredentialEnv() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

// Configured reports whether a provider credential is present
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// Delegated reports whether the credential is a delegated token rather than a direct key
func (c LLMConfig) Delegated() bool {
	return c.DelegatedPrefix != "" && strings.HasPrefix(c.APIKey, c.DelegatedPrefix)
}

// CredentialKind describes the credential for logs and the health endpoint
func (c LLMConfig) CredentialKind() string {
	switch {
	case !c.Configured():
		return "missing"
	case c.Delegated():
		return "delegated_token"
	default:
		return "api_key"
	}
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
