package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/contratclair/contratclair/backend/model"
)

// fencePattern matches the first markdown code fence, optionally tagged json.
var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// StripFence returns the content of the first fenced block in raw, or the
// trimmed input when there is none. Best effort only.
func StripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// analysisReply uses pointers to tell absent keys from zero values.
type analysisReply struct {
	Risks              *[]string `json:"risks"`
	MissingProtections *[]string `json:"missingProtections"`
	Summary            *string   `json:"summary"`
	Suggestions        *[]string `json:"suggestions"`
}

func (r analysisReply) missingKeys() []string {
	var missing []string
	if r.Risks == nil {
		missing = append(missing, "risks")
	}
	if r.MissingProtections == nil {
		missing = append(missing, "missingProtections")
	}
	if r.Summary == nil || *r.Summary == "" {
		missing = append(missing, "summary")
	}
	if r.Suggestions == nil {
		missing = append(missing, "suggestions")
	}
	return missing
}

// ParseAnalysis extracts an AnalysisResult from a raw provider reply.
func ParseAnalysis(raw string) (*model.AnalysisResult, error) {
	var reply analysisReply
	if err := json.Unmarshal([]byte(StripFence(raw)), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProviderOutput, err)
	}

	if missing := reply.missingKeys(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteResponse, strings.Join(missing, ", "))
	}

	return &model.AnalysisResult{
		Risks:              *reply.Risks,
		MissingProtections: *reply.MissingProtections,
		Summary:            *reply.Summary,
		Suggestions:        *reply.Suggestions,
		Free:               true,
	}, nil
}
