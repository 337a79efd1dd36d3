package extract

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

const defaultNarrative = "Professional analysis completed"

var summaryTypeContext = map[string]string{
	"revenue_growth":         "Revenue growth claims require verification against audited financial statements and SEC filings",
	"carbon_reduction":       "Environmental claims need validation through sustainability reports, third-party audits, and carbon accounting standards",
	"efficiency_improvement": "Operational efficiency claims should be benchmarked against industry standards and verified through performance metrics",
	"compliance_status":      "Compliance claims require verification through regulatory filings, audit reports, and certification documentation",
}

var reasoningTypeContext = map[string]string{
	"revenue_growth":         "Revenue growth claims require cross-referencing with official financial reports, market conditions, and industry growth rates",
	"carbon_reduction":       "Environmental impact claims need validation through recognized carbon accounting methodologies and third-party verification",
	"efficiency_improvement": "Operational efficiency claims should be benchmarked against industry standards and validated through measurable performance indicators",
	"compliance_status":      "Compliance claims require verification through regulatory documentation, audit trails, and certification records",
	"automation":             "Technology implementation claims should be supported by deployment metrics, performance data, and operational impact measurements",
}

// PatternSummary builds the evidence summary for a pattern-detected claim
func PatternSummary(category model.Category, claimType string, verdict model.Verdict, confidence model.Confidence) string {
	cat := strings.ToLower(string(category))

	var summary string
	switch verdict {
	case model.VerdictConfirmed:
		summary = fmt.Sprintf("Strong verification indicators identified in %s claim with documented evidence and third-party validation markers", cat)
	case model.VerdictSupported:
		summary = fmt.Sprintf("Claim demonstrates credibility based on %s industry standards, typical performance metrics, and realistic value ranges", cat)
	case model.VerdictContradicted:
		summary = fmt.Sprintf("Claim contradicts established %s benchmarks, industry norms, and realistic performance expectations", cat)
	case model.VerdictUnverifiable:
		summary = fmt.Sprintf("Insufficient publicly available information to independently verify this %s claim through standard verification channels", cat)
	case model.VerdictUnsupported:
		summary = fmt.Sprintf("Additional supporting evidence, documentation, and independent validation required to substantiate this %s claim", cat)
	default:
		summary = defaultNarrative
	}

	if extra, ok := summaryTypeContext[claimType]; ok {
		summary += ". " + extra
	}

	switch confidence {
	case model.ConfidenceHigh:
		summary += ". High confidence analysis based on specific quantitative indicators"
	case model.ConfidenceMedium:
		summary += ". Medium confidence analysis based on qualitative institutional statements"
	}

	return summary
}

// PatternReasoning builds the verdict reasoning for a pattern-detected claim
func PatternReasoning(category model.Category, claimType string, verdict model.Verdict, value string) string {
	cat := strings.ToLower(string(category))

	var reasoning string
	switch verdict {
	case model.VerdictConfirmed:
		reasoning = fmt.Sprintf("The %s claim contains strong verification indicators and aligns with documented evidence standards and industry best practices", cat)
	case model.VerdictSupported:
		reasoning = fmt.Sprintf("The %s claim appears credible and falls within realistic industry performance ranges based on comparative analysis", cat)
	case model.VerdictContradicted:
		reasoning = fmt.Sprintf("The %s claim contradicts established industry benchmarks, realistic performance expectations, and typical organizational capabilities", cat)
	case model.VerdictUnverifiable:
		reasoning = fmt.Sprintf("The %s claim lacks sufficient detail, independent verification sources, or publicly available supporting documentation", cat)
	case model.VerdictUnsupported:
		reasoning = fmt.Sprintf("The %s claim requires additional supporting evidence, independent validation, and comprehensive documentation", cat)
	default:
		reasoning = defaultNarrative
	}

	if value != "" {
		switch verdict {
		case model.VerdictContradicted:
			reasoning += fmt.Sprintf(". The claimed value of %s significantly exceeds typical industry performance standards and realistic organizational capabilities", value)
		case model.VerdictSupported:
			reasoning += fmt.Sprintf(". The reported value of %s falls within expected industry performance ranges and demonstrates realistic achievement levels", value)
		case model.VerdictConfirmed:
			reasoning += fmt.Sprintf(". The documented value of %s is supported by verification indicators and aligns with auditable performance metrics", value)
		}
	}

	if extra, ok := reasoningTypeContext[claimType]; ok {
		reasoning += ". " + extra
	}

	return reasoning
}
