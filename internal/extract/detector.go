package extract

import (
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

// PatternDetector finds claims with an ordered list of regex rules.
// It holds no state between calls: the same text always yields the same claims.
type PatternDetector struct {
	rules      []Rule
	thresholds Thresholds
	minLength  int
}

// NewPatternDetector creates a detector with the built-in rules
func NewPatternDetector(cfg model.PatternConfig) *PatternDetector {
	thresholds := Thresholds(model.DefaultThresholds())
	for k, v := range cfg.Thresholds {
		thresholds[k] = v
	}
	minLength := cfg.MinSentenceLength
	if minLength <= 0 {
		minLength = 30
	}
	return &PatternDetector{
		rules:      DefaultRules(),
		thresholds: thresholds,
		minLength:  minLength,
	}
}

// Detect extracts claims sentence by sentence. When nothing matches, a
// single institutional claim may be synthesized for the whole document.
func (d *PatternDetector) Detect(content, filename string) []model.Claim {
	var claims []model.Claim

	for i, sentence := range SplitSentences(content, d.minLength) {
		lower := strings.ToLower(sentence)
		r, value, ok := Match(d.rules, lower)
		if !ok {
			continue
		}

		verdict := PatternVerdict(lower, r.Category, r.ClaimType, value, d.thresholds)
		claims = append(claims, model.Claim{
			Text:          sentence,
			SourceContext: sentence,
			Category:      r.Category,
			Verdict:       verdict,
			Summary:       PatternSummary(r.Category, r.ClaimType, verdict, r.Confidence),
			Reasoning:     PatternReasoning(r.Category, r.ClaimType, verdict, value),
			Metadata: model.ClaimMetadata{
				Source:         filename,
				SourceChunkID:  i,
				ClaimType:      r.ClaimType,
				ExtractedValue: value,
				Confidence:     r.Confidence,
				AnalysisMethod: MethodPatternMatching,
			},
		})
	}

	if len(claims) == 0 {
		if claim, ok := InstitutionalClaim(content, filename); ok {
			claims = append(claims, claim)
		}
	}

	return claims
}
