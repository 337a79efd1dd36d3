package extract

import (
	"strconv"
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

var (
	strongVerification = []string{"verified", "audited", "certified", "validated", "confirmed", "documented", "third-party"}
	contradictionWords = []string{"failed", "missed", "below", "under", "insufficient"}
	uncertaintyWords   = []string{"claims", "allegedly", "reportedly", "estimates", "approximately", "around", "target", "goal"}
)

// Thresholds maps a claim type to the largest credible extracted value
type Thresholds map[string]float64

// PatternVerdict decides the verdict of a pattern match. Indicator words are
// checked before values; the first step that applies wins.
func PatternVerdict(sentenceLower string, category model.Category, claimType, value string, thresholds Thresholds) model.Verdict {
	switch {
	case containsAny(sentenceLower, strongVerification):
		return model.VerdictConfirmed
	case containsAny(sentenceLower, contradictionWords):
		return model.VerdictContradicted
	case containsAny(sentenceLower, uncertaintyWords):
		return model.VerdictUnverifiable
	}

	if v, ok := parseValue(value); ok {
		if limit, has := thresholds[claimType]; has && v > limit {
			return model.VerdictContradicted
		}
		switch category {
		case model.CategoryFinancial:
			if v > 0 {
				return model.VerdictSupported
			}
		case model.CategoryOperational, model.CategoryESG:
			return model.VerdictSupported
		}
	}

	if category == model.CategoryLegalCompliance {
		return model.VerdictUnverifiable
	}
	return model.VerdictSupported
}

// parseValue parses a captured value with '%' and ',' removed
func parseValue(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	cleaned := strings.NewReplacer("%", "", ",", "").Replace(value)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
