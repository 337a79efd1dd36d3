package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/claimaudit/internal/model"
)

const (
	// MethodPatternMatching marks claims found by a pattern rule
	MethodPatternMatching = "enhanced_pattern_matching"

	// MethodGeneralContent marks the synthesized whole-document claim
	MethodGeneralContent = "general_content_analysis"

	institutionalMinChars = 200
	contextPreviewChars   = 600
	maxQuantities         = 5
)

var (
	institutionalKeywords = []string{
		"company", "corporation", "organization", "firm", "business", "enterprise",
		"annual report", "sustainability report", "performance", "results", "metrics",
	}
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?%)`)
	moneyRe   = regexp.MustCompile(`(?i)\$?([\d,]+(?:\.\d+)?)\s*(?:million|billion|thousand)`)
)

// InstitutionalClaim synthesizes a single claim for a document that
// mentions an institution and quantities but matched no rule
func InstitutionalClaim(content, filename string) (model.Claim, bool) {
	if len(content) <= institutionalMinChars {
		return model.Claim{}, false
	}
	if !containsAny(strings.ToLower(content), institutionalKeywords) {
		return model.Claim{}, false
	}

	percentages := firstGroups(percentRe, content, maxQuantities)
	amounts := firstGroups(moneyRe, content, maxQuantities)
	if len(percentages) == 0 && len(amounts) == 0 {
		return model.Claim{}, false
	}

	category := model.CategoryOperational
	if len(amounts) > 0 {
		category = model.CategoryFinancial
	}

	sourceContext := content
	if utf8.RuneCountInString(content) > contextPreviewChars {
		sourceContext = truncateRunes(content, contextPreviewChars) + "..."
	}

	return model.Claim{
		Text:          "Document contains institutional performance data and metrics: " + strings.Join(append(percentages, amounts...), ", "),
		SourceContext: sourceContext,
		Category:      category,
		Verdict:       model.VerdictUnverifiable,
		Summary:       "Quantitative institutional data identified requiring external verification against official sources and independent validation",
		Reasoning:     "Numerical performance data in institutional documents needs comprehensive cross-referencing with audited reports, regulatory filings, and independent verification sources",
		Metadata: model.ClaimMetadata{
			Source:         filename,
			SourceChunkID:  0,
			ClaimType:      "quantitative_general",
			AnalysisMethod: MethodGeneralContent,
		},
	}, true
}

func firstGroups(re *regexp.Regexp, text string, limit int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, limit) {
		out = append(out, m[1])
	}
	return out
}

// truncateRunes keeps the first n characters of s
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
