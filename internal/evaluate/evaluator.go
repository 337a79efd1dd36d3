// Package evaluate asks a model to judge a claim against its evidence
package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/model"
)

// Fixed narratives for results that did not come from the model
const (
	NoEvidenceSummary   = "No relevant evidence found."
	NoEvidenceReasoning = "The search did not yield enough evidence."
	ParseErrorSummary   = "Failed to parse model JSON."
	BadVerdictSummary   = "Model returned an unrecognized verdict."
)

// Result is the evaluator's judgement of one claim
type Result struct {
	Verdict   model.Verdict `json:"verdict"`
	Summary   string        `json:"evidence_summary"`
	Reasoning string        `json:"verdict_reasoning"`
}

// Evaluator judges claims against evidence
type Evaluator struct {
	provider llm.Provider
}

// NewEvaluator creates a new evaluator
func NewEvaluator(provider llm.Provider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Evaluate returns Insufficient Evidence without a model call when the
// evidence is empty. Otherwise the model's JSON answer is parsed; an
// unparseable answer or an unknown verdict becomes Evaluation Error with the
// raw text as reasoning. Only model call errors are returned.
func (e *Evaluator) Evaluate(ctx context.Context, claimText string, evidence model.Evidence) (Result, error) {
	if evidence.IsEmpty() {
		return Result{
			Verdict:   model.VerdictInsufficientEvidence,
			Summary:   NoEvidenceSummary,
			Reasoning: NoEvidenceReasoning,
		}, nil
	}

	evidenceJSON, err := encodeEvidence(evidence.Items)
	if err != nil {
		return Result{}, err
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: llm.Render(llm.EvaluateClaimPrompt, map[string]string{
			"claim_text":    claimText,
			"evidence_json": evidenceJSON,
		}),
	})
	if err != nil {
		return Result{}, fmt.Errorf("evaluate claim: %w", err)
	}

	return ParseResult(resp.Text), nil
}

// encodeEvidence renders items as indented JSON without HTML escaping
func encodeEvidence(items []model.EvidenceItem) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("encode evidence: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ParseResult decodes a model answer into a Result
func ParseResult(raw string) Result {
	var parsed Result
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return Result{
			Verdict:   model.VerdictEvaluationError,
			Summary:   ParseErrorSummary,
			Reasoning: raw,
		}
	}

	parsed.Verdict = model.Verdict(strings.TrimSpace(string(parsed.Verdict)))
	if !model.IsEvaluatorVerdict(parsed.Verdict) {
		return Result{
			Verdict:   model.VerdictEvaluationError,
			Summary:   BadVerdictSummary,
			Reasoning: raw,
		}
	}
	return parsed
}

// extractJSON strips Markdown code fences, then falls back to the span from
// the first '{' to the last '}'
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if json.Valid([]byte(s)) {
		return s
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
