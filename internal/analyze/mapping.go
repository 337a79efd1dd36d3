package analyze

import (
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/score"
)

const (
	defaultModelSummary   = "LLM-based professional analysis completed"
	defaultModelReasoning = "Advanced LLM analysis with evidence verification and cross-referencing"
)

// MapVerdict converts an evaluator verdict to a reported verdict.
// Anything unrecognized, including Evaluation Error, becomes Unsupported.
func MapVerdict(v model.Verdict) model.Verdict {
	switch v {
	case model.VerdictConfirmed, model.VerdictContradicted, model.VerdictUnsupported:
		return v
	case model.VerdictPlausible:
		return model.VerdictSupported
	case model.VerdictInsufficientEvidence:
		return model.VerdictUnverifiable
	}
	return model.VerdictUnsupported
}

// MapCategory converts a classifier label to a category, Operational when unknown
func MapCategory(label string) model.Category {
	if c, ok := model.ParseCategory(label); ok {
		return c
	}
	return model.CategoryOperational
}

// enhanceModelClaim maps a pipeline claim to the reported vocabulary, scores
// it and appends the trust context. Scoring sees the evaluator's own text;
// the defaults only fill what the evaluator left empty.
func enhanceModelClaim(claim *model.Claim, scorer *score.Scorer) {
	if claim.Verdict != "" {
		claim.EvalVerdict = claim.Verdict
	}
	claim.Verdict = MapVerdict(claim.Verdict)
	claim.Category = MapCategory(string(claim.Category))
	if claim.SourceContext == "" {
		claim.SourceContext = claim.Text
	}

	ts := scorer.ScoreModelClaim(*claim)
	claim.TrustScore = ts.Score
	claim.Trust = &ts

	if claim.Summary == "" {
		claim.Summary = defaultModelSummary
	}
	if claim.Reasoning == "" {
		claim.Reasoning = defaultModelReasoning
	}

	evidenceCount := 0
	if claim.Evidence != nil {
		evidenceCount = claim.Evidence.Len()
	}
	claim.Summary = score.SummaryWithTrust(claim.Summary, ts.Score)
	claim.Reasoning = score.ReasoningWithTrust(claim.Reasoning, ts.Score, claim.Category, evidenceCount)
}
