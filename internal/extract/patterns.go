package extract

import (
	"regexp"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Rule is one pattern detector rule. Capture group 1, when present, is the
// claim's extracted value.
type Rule struct {
	Pattern    *regexp.Regexp
	Category   model.Category
	ClaimType  string
	Confidence model.Confidence
}

func rule(pattern string, category model.Category, claimType string, confidence model.Confidence) Rule {
	return Rule{
		Pattern:    regexp.MustCompile(pattern),
		Category:   category,
		ClaimType:  claimType,
		Confidence: confidence,
	}
}

// Rules are matched against lower-cased sentences in this order; the first match wins
var defaultRules = []Rule{
	// Financial
	rule(`revenue.*?(?:increas|grow|rise|up|jump|boost).*?(\d+(?:\.\d+)?%)`, model.CategoryFinancial, "revenue_growth", model.ConfidenceHigh),
	rule(`profit.*?(?:increas|grow|rise|up|surge).*?(\d+(?:\.\d+)?%)`, model.CategoryFinancial, "profit_growth", model.ConfidenceHigh),
	rule(`sales.*?(?:reach|achieve|total|hit|exceed).*?\$?([\d,]+(?:\.\d+)?)\s*(?:million|billion|thousand)`, model.CategoryFinancial, "sales_figure", model.ConfidenceHigh),
	rule(`(?:earn|generat).*?(?:revenue|income).*?\$?([\d,]+(?:\.\d+)?)\s*(?:million|billion)`, model.CategoryFinancial, "revenue_amount", model.ConfidenceHigh),
	rule(`cost.*?(?:reduc|sav|cut|lower).*?(\d+(?:\.\d+)?%)`, model.CategoryFinancial, "cost_reduction", model.ConfidenceMedium),
	rule(`market.*?(?:cap|value|share).*?(?:increas|grow|reach).*?(\d+(?:\.\d+)?%)`, model.CategoryFinancial, "market_performance", model.ConfidenceMedium),
	rule(`(?:ebitda|margin|roi).*?(?:improv|increas).*?(\d+(?:\.\d+)?%)`, model.CategoryFinancial, "financial_metrics", model.ConfidenceHigh),

	// ESG
	rule(`carbon.*?(?:reduc|cut|lower|decreas|mitigat).*?(\d+(?:\.\d+)?%)`, model.CategoryESG, "carbon_reduction", model.ConfidenceHigh),
	rule(`emission.*?(?:reduc|decreas|cut|lower|mitigat).*?(\d+(?:\.\d+)?%)`, model.CategoryESG, "emission_reduction", model.ConfidenceHigh),
	rule(`renewable.*?energy.*?(?:increas|adopt|implement|reach|achieve).*?(\d+(?:\.\d+)?%)`, model.CategoryESG, "renewable_energy", model.ConfidenceHigh),
	rule(`sustainability.*?(?:initiative|program|goal|target|achievement|commitment)`, model.CategoryESG, "sustainability_program", model.ConfidenceMedium),
	rule(`environmental.*?(?:impact|footprint|performance).*?(?:reduc|improv|enhanc)`, model.CategoryESG, "environmental_impact", model.ConfidenceMedium),
	rule(`waste.*?(?:reduc|recycl|divert|eliminat).*?(\d+(?:\.\d+)?%)`, model.CategoryESG, "waste_reduction", model.ConfidenceHigh),
	rule(`water.*?(?:sav|conserv|reduc|efficien).*?(\d+(?:\.\d+)?%)`, model.CategoryESG, "water_conservation", model.ConfidenceMedium),
	rule(`biodiversity.*?(?:protect|conserv|restor|enhanc)`, model.CategoryESG, "biodiversity", model.ConfidenceMedium),
	rule(`social.*?(?:impact|responsibility|program|initiative)`, model.CategoryESG, "social_impact", model.ConfidenceMedium),

	// Operational
	rule(`efficiency.*?(?:improv|increas|enhanc|optim).*?(\d+(?:\.\d+)?%)`, model.CategoryOperational, "efficiency_improvement", model.ConfidenceHigh),
	rule(`productivity.*?(?:increas|improv|boost|enhanc).*?(\d+(?:\.\d+)?%)`, model.CategoryOperational, "productivity", model.ConfidenceHigh),
	rule(`automation.*?(?:system|implement|deploy|install|adopt)`, model.CategoryOperational, "automation", model.ConfidenceMedium),
	rule(`customer.*?satisfaction.*?(?:reach|achieve|increas|improv).*?(\d+(?:\.\d+)?%)`, model.CategoryOperational, "customer_satisfaction", model.ConfidenceHigh),
	rule(`quality.*?(?:improv|increas|enhanc|optim).*?(\d+(?:\.\d+)?%)`, model.CategoryOperational, "quality_improvement", model.ConfidenceMedium),
	rule(`safety.*?(?:record|increas|improv|enhanc).*?(\d+(?:\.\d+)?%)`, model.CategoryOperational, "safety_performance", model.ConfidenceHigh),
	rule(`digital.*?(?:transformation|innovation|technology|platform)`, model.CategoryOperational, "digital_transformation", model.ConfidenceMedium),
	rule(`supply.*?chain.*?(?:optim|improv|enhanc|streamlin)`, model.CategoryOperational, "supply_chain", model.ConfidenceMedium),

	// Legal & Compliance
	rule(`compliance.*?(?:maintain|achiev|full|complete|100%|perfect)`, model.CategoryLegalCompliance, "compliance_status", model.ConfidenceMedium),
	rule(`regulatory.*?(?:requirement|standard|framework|guideline).*?(?:meet|comply|adher|satisfy)`, model.CategoryLegalCompliance, "regulatory_compliance", model.ConfidenceMedium),
	rule(`(?:gdpr|sox|iso|hipaa|pci|regulation|directive).*?(?:complian|certif|audit|implement)`, model.CategoryLegalCompliance, "specific_compliance", model.ConfidenceHigh),
	rule(`audit.*?(?:pass|successful|clean|clear|complet|satisfactory)`, model.CategoryLegalCompliance, "audit_result", model.ConfidenceHigh),
	rule(`certification.*?(?:achiev|obtain|maintain|renew|award)`, model.CategoryLegalCompliance, "certification", model.ConfidenceHigh),
	rule(`governance.*?(?:framework|structure|process|policy)`, model.CategoryLegalCompliance, "governance", model.ConfidenceMedium),
	rule(`risk.*?(?:management|mitigation|assessment|control)`, model.CategoryLegalCompliance, "risk_management", model.ConfidenceMedium),
}

// DefaultRules returns the built-in rule list in match order
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// Match returns the first rule matching the lower-cased sentence and the
// captured value, if any
func Match(rules []Rule, sentenceLower string) (Rule, string, bool) {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(sentenceLower)
		if m == nil {
			continue
		}
		value := ""
		if len(m) > 1 {
			value = m[1]
		}
		return r, value, true
	}
	return Rule{}, "", false
}
