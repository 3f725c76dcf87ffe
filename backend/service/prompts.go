package service

import (
	"encoding/json"
	"fmt"

	"github.com/contratclair/contratclair/backend/config"
	"github.com/contratclair/contratclair/backend/model"
	"github.com/invopop/jsonschema"
)

// analysisSchema is the object the analyze prompts ask the model to return.
type analysisSchema struct {
	Risks              []string `json:"risks" jsonschema:"description=Clauses that put the protected party at a disadvantage"`
	MissingProtections []string `json:"missingProtections" jsonschema:"description=Protections the protected party lacks"`
	Summary            string   `json:"summary" jsonschema:"description=Summary of the contract in 3 to 5 sentences"`
	Suggestions        []string `json:"suggestions" jsonschema:"description=Changes that better protect the party"`
}

const analyzeTemplate = `You are a %[1]s legal expert defending the interests of the %[2]s. Analyze this contract from the %[3]s's point of view and identify everything that puts the %[3]s at a disadvantage. Respond ONLY with valid JSON:
{
  "risks": ["risk for the %[3]s 1", ...],
  "missingProtections": ["missing protection for the %[3]s 1", ...],
  "summary": "3-5 sentence summary of the contract from the %[3]s's side",
  "suggestions": ["improvement that better protects the %[3]s 1", ...]
}

The object must validate against this JSON schema:
%[4]s`

const rewriteTemplate = `You are a %s legal expert. You have been given a contract with problematic clauses. Rewrite this contract IN FULL, correcting every imbalance, adding the missing clauses, and making it fair to both parties (with reinforced protection for the indicated role). Use correct but accessible legal language. Keep the structure of the original contract (articles, parties, subject matter...) but improve every clause. Respond ONLY with the text of the rewritten contract, without comments or explanations.`

const generateTemplate = `You are a %[1]s legal expert. Generate a complete and legally sound contract based on the provided description. The contract must comply with %[1]s law, cover every essential aspect, and be balanced. Format: professional contract with numbered articles, clearly defined parties, and the standard clauses included (confidentiality, intellectual property, termination, liability, payment, jurisdiction). Respond ONLY with the text of the contract, without comments.`

// prompts holds the system prompts rendered once from configuration
type prompts struct {
	analyzeClient   string
	analyzeProvider string
	rewrite         string
	generate        string
}

func buildPrompts(cfg config.PromptsConfig) prompts {
	schema := renderAnalysisSchema()
	return prompts{
		analyzeClient:   fmt.Sprintf(analyzeTemplate, cfg.Jurisdiction, "CLIENT (the buyer of the service)", "client", schema),
		analyzeProvider: fmt.Sprintf(analyzeTemplate, cfg.Jurisdiction, "PROVIDER (freelancer/supplier)", "provider", schema),
		rewrite:         fmt.Sprintf(rewriteTemplate, cfg.Jurisdiction),
		generate:        fmt.Sprintf(generateTemplate, cfg.Jurisdiction),
	}
}

func (p prompts) analyze(role model.Role) string {
	if role == model.RoleProvider {
		return p.analyzeProvider
	}
	return p.analyzeClient
}

func renderAnalysisSchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	data, err := json.MarshalIndent(reflector.Reflect(&analysisSchema{}), "", "  ")
	if err != nil {
		// The schema is built from a static type; this cannot fail at runtime.
		panic(fmt.Sprintf("render analysis schema: %v", err))
	}
	return string(data)
}

func analyzeMessage(contractText string) string {
	return "Here is the contract to analyze:\n\n" + contractText
}

func rewriteMessage(role model.Role, contractText string) string {
	return fmt.Sprintf("Party to protect first: %s\n\nHere is the contract to rewrite:\n\n%s", role.Label(), contractText)
}

func generateMessage(role model.Role, contractType, description string) string {
	return fmt.Sprintf("Contract type: %s\nUser role: %s\n\nSituation description:\n%s", contractType, role.Label(), description)
}
