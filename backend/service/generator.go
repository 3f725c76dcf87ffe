package service

import (
	"context"
	"fmt"

	"github.com/contratclair/contratclair/backend/config"
)

// GenerateParams is a single non-streaming text generation call
type GenerateParams struct {
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  *float64 // nil = provider default
}

// Generator is the provider-neutral text generation interface the assistant depends on.
type Generator interface {
	Generate(ctx context.Context, params GenerateParams) (string, error)
	Provider() string
	Model() string
}

// NewGenerator selects the provider adapter for cfg. It is called once at startup.
func NewGenerator(cfg config.LLMConfig) (Generator, error) {
	if !cfg.Configured() {
		return nil, ErrMissingCredential
	}

	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		return newAnthropicGenerator(cfg), nil
	case config.ProviderOpenAI:
		return newOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Temp returns a pointer to t for GenerateParams.Temperature
func Temp(t float64) *float64 {
	return &t
}

func withPreamble(preamble, system string) string {
	if preamble == "" {
		return system
	}
	return preamble + "\n\n" + system
}
