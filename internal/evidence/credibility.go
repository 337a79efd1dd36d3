package evidence

import (
	"net/url"
	"strings"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Source types assigned to web evidence
const (
	SourceGovernment = "Government"
	SourceAcademic   = "Academic"
	SourceNonProfit  = "Non-profit"
	SourceNewsMedia  = "News Media"
	SourceFinancial  = "Financial"
	SourceIndustry   = "Industry"
	SourceUnknown    = "Unknown"
)

// HighlyCredible reports whether a source type counts as a highly credible institution
func HighlyCredible(sourceType string) bool {
	switch sourceType {
	case SourceGovernment, SourceAcademic, SourceFinancial:
		return true
	}
	return false
}

// typeRule assigns a source type to hosts containing any of the fragments
type typeRule struct {
	sourceType string
	fragments  []string
}

// Rules are checked in order; the first hit wins. "sec.gov" therefore
// classifies as Government, not Financial.
var defaultTypeRules = []typeRule{
	{SourceGovernment, []string{"gov", "europa.eu"}},
	{SourceAcademic, []string{"edu", "ac.uk"}},
	{SourceNonProfit, []string{"org"}},
	{SourceNewsMedia, []string{"reuters.com", "bloomberg.com", "wsj.com"}},
	{SourceFinancial, []string{"sec.gov", "investor.", "finance."}},
}

var defaultCredibleDomains = map[model.Category][]string{
	model.CategoryFinancial: {
		"sec.gov", "edgar.sec.gov", "investor.", "finance.yahoo.com",
		"bloomberg.com", "reuters.com", "wsj.com", "ft.com",
		"marketwatch.com", "nasdaq.com", "nyse.com",
	},
	model.CategoryESG: {
		"epa.gov", "sustainability.", "cdp.net", "globalreporting.org",
		"sasb.org", "tcfd.", "unfccc.int", "ipcc.ch",
		"carbontrust.com", "greenpeace.org",
	},
	model.CategoryOperational: {
		"iso.org", "quality.", "lean.org", "asq.org",
		"mckinsey.com", "bcg.com", "deloitte.com", "pwc.com",
	},
	model.CategoryLegalCompliance: {
		"gov", "europa.eu", "gdpr.eu", "sec.gov",
		"ftc.gov", "justice.gov", "compliance.", "audit.",
	},
}

var defaultGeneralCredible = []string{
	"edu", "org", "gov", "ac.uk", "harvard.edu", "mit.edu",
	"stanford.edu", "oxford.ac.uk", "cambridge.org",
}

// CredibilityClassifier types web sources by domain and decides whether a
// domain is credible for a claim category. Matching is by substring of the
// lower-cased host.
type CredibilityClassifier struct {
	typeRules []typeRule
	credible  map[model.Category][]string
	general   []string
}

// NewCredibilityClassifier creates a classifier over the built-in domain lists
func NewCredibilityClassifier() *CredibilityClassifier {
	credible := make(map[model.Category][]string, len(defaultCredibleDomains))
	for category, domains := range defaultCredibleDomains {
		credible[category] = append(domains[:0:0], domains...)
	}
	return &CredibilityClassifier{
		typeRules: defaultTypeRules,
		credible:  credible,
		general:   defaultGeneralCredible,
	}
}

// Categorize returns the source type for a URL. An empty URL is Unknown and
// anything unmatched is Industry.
func (c *CredibilityClassifier) Categorize(rawURL string) string {
	if rawURL == "" {
		return SourceUnknown
	}
	host := hostOf(rawURL)
	for _, rule := range c.typeRules {
		if containsAnyFragment(host, rule.fragments) {
			return rule.sourceType
		}
	}
	return SourceIndustry
}

// IsCredible reports whether the URL's host matches a credible domain for
// the category or one of the general credible domains
func (c *CredibilityClassifier) IsCredible(rawURL string, category model.Category) bool {
	if rawURL == "" {
		return false
	}
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	return containsAnyFragment(host, c.credible[category]) || containsAnyFragment(host, c.general)
}

// Relevance scores a search result against a query: +3 per query word found
// in the title, +1 per word found in the body, normalized to 0-100
func Relevance(title, body, query string) int {
	title = strings.ToLower(title)
	body = strings.ToLower(body)
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 3
		}
		if strings.Contains(body, term) {
			score++
		}
	}

	normalized := score * 100 / (len(terms) * 4)
	if normalized > 100 {
		return 100
	}
	return normalized
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)

	// Remove port from host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

func containsAnyFragment(host string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(host, f) {
			return true
		}
	}
	return false
}
