package llm

import "strings"

// Prompt templates use {name} placeholders filled by Render
const (
	ExtractClaimsPrompt = `You are an expert auditor. Extract all distinct, verifiable claims from the provided text.
List each claim on a new line starting with a hyphen (-). Do not add explanation.

Text:
"{document_chunk}"

Claims:`

	ClassifyClaimPrompt = `Classify the following claim into one of these four categories:
- Financial
- Operational
- Legal & Compliance
- Environmental, Social, and Governance (ESG)

Respond with only the category.

Claim: "{claim_text}"
Category:`

	GenerateQueriesPrompt = `Generate 5 distinct and specific search queries to verify this claim:
Claim: "{claim_text}"

Queries:`

	EvaluateClaimPrompt = `You are an impartial auditor. Evaluate the claim using the evidence below.
Verdict must be one of: 'Confirmed', 'Plausible', 'Contradicted', 'Insufficient Evidence'.

Claim: "{claim_text}"

Evidence:
{evidence_json}

Respond in JSON with keys: "verdict", "evidence_summary", "verdict_reasoning".
JSON:`
)

// Render substitutes {key} placeholders in a single pass, so values that
// themselves contain braces are left alone
func Render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
