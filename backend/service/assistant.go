package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contratclair/contratclair/backend/config"
	"github.com/contratclair/contratclair/backend/model"
	"github.com/contratclair/contratclair/backend/pkg/logger"
)

// Output bounds per operation, in tokens
const (
	AnalyzeMaxTokens  = 4096
	RewriteMaxTokens  = 8192
	GenerateMaxTokens = 8192

	analyzeTemperature = 0.3
)

// AssistantService validates contract requests, prompts the configured
// generator and interprets its replies. It holds no per-request state.
type AssistantService struct {
	generator           Generator
	prompts             prompts
	defaultContractType string
}

// NewAssistantService builds the gateway. gen may be nil when no provider
// credential is configured; every operation then fails with ErrMissingCredential.
func NewAssistantService(gen Generator, cfg config.PromptsConfig) *AssistantService {
	contractType := cfg.DefaultContractType
	if contractType == "" {
		contractType = "Service provision"
	}
	return &AssistantService{
		generator:           gen,
		prompts:             buildPrompts(cfg),
		defaultContractType: contractType,
	}
}

// Configured reports whether a generator is available
func (s *AssistantService) Configured() bool {
	return s.generator != nil
}

// Provider returns the provider name, or "unconfigured"
func (s *AssistantService) Provider() string {
	if s.generator == nil {
		return "unconfigured"
	}
	return s.generator.Provider()
}

// Model returns the model name, or "" when unconfigured
func (s *AssistantService) Model() string {
	if s.generator == nil {
		return ""
	}
	return s.generator.Model()
}

// Analyze returns a role-biased risk analysis of the contract.
func (s *AssistantService) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if err := validateContractText(req.ContractText); err != nil {
		return nil, err
	}

	role := model.ParseRole(string(req.Role))
	ctx = logger.WithOperation(ctx, "analyze")

	raw, err := s.generate(ctx, GenerateParams{
		SystemPrompt: s.prompts.analyze(role),
		UserMessage:  analyzeMessage(req.ContractText),
		MaxTokens:    AnalyzeMaxTokens,
		Temperature:  Temp(analyzeTemperature),
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		logger.Warn(ctx, "unusable analysis reply", "error", err, "reply", logger.Truncate(raw, 200))
		return nil, err
	}

	return result, nil
}

// Rewrite returns the full contract rewritten to protect the given role.
func (s *AssistantService) Rewrite(ctx context.Context, req model.RewriteRequest) (*model.ContractTextResult, error) {
	if err := validateContractText(req.ContractText); err != nil {
		return nil, err
	}

	role := model.ParseRole(string(req.Role))
	ctx = logger.WithOperation(ctx, "rewrite")

	raw, err := s.generate(ctx, GenerateParams{
		SystemPrompt: s.prompts.rewrite,
		UserMessage:  rewriteMessage(role, req.ContractText),
		MaxTokens:    RewriteMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &model.ContractTextResult{Contract: strings.TrimSpace(raw)}, nil
}

// Generate drafts a new contract from a free-text description.
func (s *AssistantService) Generate(ctx context.Context, req model.GenerateRequest) (*model.ContractTextResult, error) {
	if model.TrimmedLength(req.Description) < model.MinTextLength {
		return nil, invalidInput("description", "Description is too short or missing.")
	}

	role := model.ParseRole(string(req.Role))
	contractType := string(req.ContractType)
	if contractType == "" {
		contractType = s.defaultContractType
	}
	ctx = logger.WithOperation(ctx, "generate")

	raw, err := s.generate(ctx, GenerateParams{
		SystemPrompt: s.prompts.generate,
		UserMessage:  generateMessage(role, contractType, req.Description),
		MaxTokens:    GenerateMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &model.ContractTextResult{Contract: strings.TrimSpace(raw)}, nil
}

func (s *AssistantService) generate(ctx context.Context, params GenerateParams) (string, error) {
	if s.generator == nil {
		return "", ErrMissingCredential
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, params)
	if err != nil {
		logger.Error(ctx, "provider call failed",
			"provider", s.generator.Provider(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", err
	}

	logger.Info(ctx, "provider call completed",
		"provider", s.generator.Provider(),
		"model", s.generator.Model(),
		"duration_ms", time.Since(start).Milliseconds(),
		"reply_bytes", len(raw),
	)
	return raw, nil
}

func validateContractText(text string) error {
	if model.TrimmedLength(text) < model.MinTextLength {
		return invalidInput("contractText", "Contract text is too short or missing.")
	}
	if model.Length(text) > model.MaxContractLength {
		return invalidInput("contractText", fmt.Sprintf("Contract is too long (max %d characters).", model.MaxContractLength))
	}
	return nil
}
