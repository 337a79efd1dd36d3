package evidence

import (
	"regexp"
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

var enumerationRe = regexp.MustCompile(`^(\d+[.)]|[-*•])\s*`)

// ParseQueries turns a model's query list into distinct search queries.
// Enumeration markers are stripped; empty lines and repeats are dropped.
func ParseQueries(text string, limit int) []string {
	seen := make(map[string]bool)
	var queries []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(enumerationRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
		if limit > 0 && len(queries) == limit {
			break
		}
	}
	return queries
}

var categoryQueryTemplates = map[model.Category][]string{
	model.CategoryFinancial: {
		"financial performance %v revenue growth",
		"company earnings %v profit increase",
		"financial results %v quarterly report",
		"SEC filings revenue growth %v",
		"annual report financial performance %v",
	},
	model.CategoryESG: {
		"carbon emissions reduction %v sustainability",
		"environmental impact %v carbon footprint",
		"renewable energy %v sustainability report",
		"ESG performance %v environmental goals",
		"climate change initiatives %v carbon neutral",
	},
	model.CategoryOperational: {
		"operational efficiency %v productivity",
		"automation systems %v efficiency gains",
		"customer satisfaction %v survey results",
		"quality improvement %v operational metrics",
		"digital transformation %v efficiency",
	},
	model.CategoryLegalCompliance: {
		"regulatory compliance audit results",
		"GDPR compliance certification audit",
		"SOX compliance audit report",
		"ISO certification compliance audit",
		"regulatory requirements compliance status",
	},
}

var generalQueryTemplates = []string{
	"industry benchmarks %c %v",
	"third party verification %c",
	"independent audit %c performance",
}

// WebQueries builds the verification queries for a claim: the category
// templates first, then the general ones. %v is the extracted value and %c
// the lower-cased category. An empty value leaves no stray spaces.
func WebQueries(claim model.Claim) []string {
	value := claim.Metadata.ExtractedValue
	category := strings.ToLower(string(claim.Category))

	fill := func(tmpl string) string {
		q := strings.NewReplacer("%v", value, "%c", category).Replace(tmpl)
		return strings.Join(strings.Fields(q), " ")
	}

	var queries []string
	for _, tmpl := range categoryQueryTemplates[claim.Category] {
		queries = append(queries, fill(tmpl))
	}
	for _, tmpl := range generalQueryTemplates {
		queries = append(queries, fill(tmpl))
	}
	return queries
}
