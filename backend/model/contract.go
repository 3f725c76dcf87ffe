package model

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Text length bounds, in characters
const (
	MinTextLength     = 10
	MaxContractLength = 100_000
)

// Role is the contracting party whose interests a request protects
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// ParseRole normalizes a raw role value; anything but "provider" is a client.
func ParseRole(raw string) Role {
	if Role(raw) == RoleProvider {
		return RoleProvider
	}
	return RoleClient
}

// UnmarshalJSON accepts any JSON value. Anything but the string "provider",
// including numbers, objects and null, decodes as RoleClient.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = RoleClient
		return nil
	}
	*r = ParseRole(raw)
	return nil
}

// ContractType names the kind of contract to draft. Non-string JSON values
// decode as empty so the configured default applies.
type ContractType string

func (t *ContractType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = ""
		return nil
	}
	*t = ContractType(raw)
	return nil
}

// Label describes the role in prompts
func (r Role) Label() string {
	if r == RoleProvider {
		return "provider (freelancer/supplier)"
	}
	return "client (buyer)"
}

// AnalysisRequest is the body of POST /api/analyze
type AnalysisRequest struct {
	ContractText string `json:"contractText"`
	Role         Role   `json:"role"`
}

// RewriteRequest is the body of POST /api/rewrite
type RewriteRequest struct {
	ContractText string `json:"contractText"`
	Role         Role   `json:"role"`
}

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	Description  string       `json:"description"`
	Role         Role         `json:"role"`
	ContractType ContractType `json:"contractType,omitempty"`
}

// AnalysisResult is the structured risk analysis returned by analyze
type AnalysisResult struct {
	Risks              []string `json:"risks"`
	MissingProtections []string `json:"missingProtections"`
	Summary            string   `json:"summary"`
	Suggestions        []string `json:"suggestions"`
	Free               bool     `json:"free"`
}

// ContractTextResult carries a rewritten or generated contract
type ContractTextResult struct {
	Contract string `json:"contract"`
}

// TrimmedLength returns the number of characters in s once surrounding whitespace is removed
func TrimmedLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// Length returns the number of characters in s
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
