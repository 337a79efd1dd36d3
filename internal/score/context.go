package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

var summaryContext = map[model.TrustBand]string{
	model.BandHigh:         " High-confidence analysis with strong supporting evidence and credible sources.",
	model.BandModerateHigh: " Moderate-to-high confidence analysis with good supporting evidence.",
	model.BandModerate:     " Moderate confidence analysis with adequate supporting evidence.",
	model.BandLower:        " Lower confidence analysis with limited supporting evidence.",
	model.BandLow:          " Low confidence analysis requiring additional verification.",
}

// SummaryWithTrust appends the band sentence for score to summary
func SummaryWithTrust(summary string, score int) string {
	return summary + summaryContext[model.BandFor(score)]
}

// ReasoningWithTrust appends the trust assessment for score. evidenceCount is
// the number of evidence items, mentioned when positive. The two lowest bands
// share one sentence.
func ReasoningWithTrust(reasoning string, score int, category model.Category, evidenceCount int) string {
	cat := strings.ToLower(string(category))

	var sb strings.Builder
	sb.WriteString(reasoning)
	fmt.Fprintf(&sb, " Trust assessment (%d/100): ", score)

	switch model.BandFor(score) {
	case model.BandHigh:
		fmt.Fprintf(&sb, "High reliability based on strong evidence quality, specific measurable claims, and credible %s sources.", cat)
	case model.BandModerateHigh:
		fmt.Fprintf(&sb, "Good reliability with solid evidence base and measurable %s metrics.", cat)
	case model.BandModerate:
		fmt.Fprintf(&sb, "Moderate reliability requiring additional verification for %s claims.", cat)
	default:
		fmt.Fprintf(&sb, "Lower reliability requiring comprehensive verification and additional %s evidence.", cat)
	}

	if evidenceCount > 0 {
		fmt.Fprintf(&sb, " Analysis based on %d evidence sources.", evidenceCount)
	}
	return sb.String()
}
