package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/contratclair/contratclair/backend/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiGenerator struct {
	client   openai.Client
	model    string
	preamble string
}

func newOpenAIGenerator(cfg config.LLMConfig) *openaiGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	preamble := ""
	if cfg.Delegated() {
		for k, v := range cfg.DelegatedHeaders {
			opts = append(opts, option.WithHeader(k, v))
		}
		preamble = cfg.DelegatedPreamble
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openaiGenerator{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		preamble: preamble,
	}
}

func (g *openaiGenerator) Generate(ctx context.Context, p GenerateParams) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(withPreamble(g.preamble, p.SystemPrompt)),
			openai.UserMessage(p.UserMessage),
		},
		MaxCompletionTokens: openai.Int(int64(p.MaxTokens)),
	}
	if p.Temperature != nil {
		params.Temperature = openai.Float(*p.Temperature)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %v", ErrProviderAuth, err)
		}
		return "", fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	slog.DebugContext(ctx, "llm generation completed",
		"provider", config.ProviderOpenAI,
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}

func (g *openaiGenerator) Provider() string {
	return config.ProviderOpenAI
}

func (g *openaiGenerator) Model() string {
	return g.model
}
