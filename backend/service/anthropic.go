package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/contratclair/contratclair/backend/config"
)

type anthropicGenerator struct {
	client   anthropic.Client
	model    string
	preamble string
}

func newAnthropicGenerator(cfg config.LLMConfig) *anthropicGenerator {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}

	preamble := ""
	if cfg.Delegated() {
		// Delegated tokens authenticate as bearer and must not also send x-api-key.
		opts = append(opts,
			option.WithAuthToken(cfg.APIKey),
			option.WithHeaderDel("x-api-key"),
		)
		for k, v := range cfg.DelegatedHeaders {
			opts = append(opts, option.WithHeader(k, v))
		}
		preamble = cfg.DelegatedPreamble
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicGenerator{
		client:   anthropic.NewClient(opts...),
		model:    cfg.Model,
		preamble: preamble,
	}
}

func (g *anthropicGenerator) Generate(ctx context.Context, p GenerateParams) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(p.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: withPreamble(g.preamble, p.SystemPrompt)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.UserMessage)),
		},
	}
	if p.Temperature != nil {
		params.Temperature = anthropic.Float(*p.Temperature)
	}

	start := time.Now()
	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %v", ErrProviderAuth, err)
		}
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	slog.DebugContext(ctx, "llm generation completed",
		"provider", config.ProviderAnthropic,
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}

	return text.String(), nil
}

func (g *anthropicGenerator) Provider() string {
	return config.ProviderAnthropic
}

func (g *anthropicGenerator) Model() string {
	return g.model
}
