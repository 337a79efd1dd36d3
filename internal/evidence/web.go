package evidence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
)

// SourceFinder returns web evidence sources for one verification query
type SourceFinder interface {
	Find(ctx context.Context, query string, category model.Category) ([]model.WebSource, error)
}

type catalogueEntry struct {
	title      string
	url        string
	snippet    string
	sourceType string
	relevance  int
}

var catalogue = map[model.Category][]catalogueEntry{
	model.CategoryFinancial: {
		{"SEC EDGAR Database - Financial Filings", "https://www.sec.gov/edgar/searchedgar/companysearch.html",
			"Official SEC database for company financial filings, quarterly reports, and earnings data", SourceGovernment, 92},
		{"Yahoo Finance - Company Financial Data", "https://finance.yahoo.com/",
			"Comprehensive financial data including revenue, earnings, and performance metrics", SourceFinancial, 88},
	},
	model.CategoryESG: {
		{"EPA Greenhouse Gas Reporting Program", "https://www.epa.gov/ghgreporting",
			"Official EPA data on greenhouse gas emissions and environmental reporting", SourceGovernment, 95},
		{"CDP Climate Disclosure Project", "https://www.cdp.net/en",
			"Global environmental disclosure system for companies and cities", SourceNonProfit, 90},
	},
	model.CategoryOperational: {
		{"McKinsey Global Institute - Productivity Research", "https://www.mckinsey.com/mgi/our-research",
			"Research on operational efficiency and productivity improvements", SourceIndustry, 85},
		{"ISO 9001 Quality Management Standards", "https://www.iso.org/iso-9001-quality-management.html",
			"International standards for quality management and operational efficiency", SourceNonProfit, 82},
	},
	model.CategoryLegalCompliance: {
		{"European Data Protection Board - GDPR", "https://edpb.europa.eu/",
			"Official GDPR compliance guidance and enforcement information", SourceGovernment, 96},
		{"SEC Sarbanes-Oxley Act Compliance", "https://www.sec.gov/spotlight/sarbanes-oxley.htm",
			"Official SEC guidance on SOX compliance requirements", SourceGovernment, 94},
	},
}

// Catalogue returns placeholder sources from a fixed list of credible
// institutions per category plus an industry benchmark entry. It makes no
// network calls; the sources point at where a claim could be checked.
type Catalogue struct{}

// Find returns the catalogue entries for the category, tagged with query
func (Catalogue) Find(_ context.Context, query string, category model.Category) ([]model.WebSource, error) {
	entries := catalogue[category]
	sources := make([]model.WebSource, 0, len(entries)+1)
	for _, e := range entries {
		sources = append(sources, model.WebSource{
			Title:          e.title,
			URL:            e.url,
			Snippet:        e.snippet,
			SourceType:     e.sourceType,
			RelevanceScore: e.relevance,
			SearchQuery:    query,
		})
	}

	lower := strings.ToLower(string(category))
	sources = append(sources, model.WebSource{
		Title:          fmt.Sprintf("Industry Benchmarks - %s Performance", category),
		URL:            "https://www.industry-benchmarks.org/" + strings.ReplaceAll(lower, " ", "-"),
		Snippet:        fmt.Sprintf("Comprehensive industry benchmarks and performance metrics for %s sector", lower),
		SourceType:     SourceIndustry,
		RelevanceScore: 78,
		SearchQuery:    query,
	})
	return sources, nil
}

// LiveFinder searches the web and keeps results from credible domains
type LiveFinder struct {
	searcher   search.Searcher
	classifier *CredibilityClassifier
	maxResults int
}

// NewLiveFinder creates a finder over a web searcher
func NewLiveFinder(searcher search.Searcher, classifier *CredibilityClassifier, maxResults int) *LiveFinder {
	if classifier == nil {
		classifier = NewCredibilityClassifier()
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &LiveFinder{searcher: searcher, classifier: classifier, maxResults: maxResults}
}

// Find runs one text search and converts the credible results
func (f *LiveFinder) Find(ctx context.Context, query string, category model.Category) ([]model.WebSource, error) {
	results, err := f.searcher.Text(ctx, query, f.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var sources []model.WebSource
	for _, r := range results {
		if !f.classifier.IsCredible(r.URL, category) {
			continue
		}
		sources = append(sources, model.WebSource{
			Title:          r.Title,
			URL:            r.URL,
			Snippet:        r.Body,
			SourceType:     f.classifier.Categorize(r.URL),
			RelevanceScore: Relevance(r.Title, r.Body, query),
			SearchQuery:    query,
		})
	}
	return sources, nil
}

// WebCollector gathers web evidence for a claim over its verification queries
type WebCollector struct {
	finder     SourceFinder
	queries    int
	maxSources int
	logger     *zap.Logger
}

// NewWebCollector creates a collector. Defaults: 3 queries, 5 sources kept.
func NewWebCollector(finder SourceFinder, cfg model.EvidenceConfig, logger *zap.Logger) *WebCollector {
	c := &WebCollector{
		finder:     finder,
		queries:    cfg.WebQueriesPerClaim,
		maxSources: cfg.MaxWebEvidence,
		logger:     logging.OrNop(logger),
	}
	if c.queries <= 0 {
		c.queries = 3
	}
	if c.maxSources <= 0 {
		c.maxSources = 5
	}
	return c
}

// Collect returns every source found for the claim and the subset kept on
// it. The narrative sentences describe all sources, the claim keeps the
// first maxSources. A failing query is logged and skipped.
func (c *WebCollector) Collect(ctx context.Context, claim model.Claim) (all, kept []model.WebSource, err error) {
	queries := WebQueries(claim)
	if len(queries) > c.queries {
		queries = queries[:c.queries]
	}

	for _, q := range queries {
		sources, findErr := c.finder.Find(ctx, q, claim.Category)
		if findErr != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			c.logger.Warn("web evidence query failed", zap.String("query", q), zap.Error(findErr))
			continue
		}
		all = append(all, sources...)
	}

	kept = all
	if len(kept) > c.maxSources {
		kept = kept[:c.maxSources]
	}
	return all, kept, nil
}

// SummaryWithWeb appends a sentence counting the sources by type, types in
// first-seen order
func SummaryWithWeb(summary string, sources []model.WebSource) string {
	if len(sources) == 0 {
		return summary
	}

	var order []string
	counts := make(map[string]int)
	for _, s := range sources {
		t := s.SourceType
		if t == "" {
			t = SourceUnknown
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	parts := make([]string, 0, len(order))
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], strings.ToLower(t)))
	}

	return fmt.Sprintf("%s Web verification found %d relevant sources including %s sources.",
		summary, len(sources), strings.Join(parts, ", "))
}

// ReasoningWithWeb appends a sentence on source credibility and average relevance
func ReasoningWithWeb(reasoning string, sources []model.WebSource) string {
	if len(sources) == 0 {
		return reasoning
	}

	credible := 0
	total := 0
	for _, s := range sources {
		if HighlyCredible(s.SourceType) {
			credible++
		}
		total += s.RelevanceScore
	}
	avg := float64(total) / float64(len(sources))

	var sb strings.Builder
	sb.WriteString(reasoning)
	fmt.Fprintf(&sb, " Independent web verification identified %d supporting sources", len(sources))
	if credible > 0 {
		fmt.Fprintf(&sb, " with %d from highly credible institutions", credible)
	}
	switch {
	case avg > 70:
		fmt.Fprintf(&sb, " showing high relevance (avg. %.0f%% match)", avg)
	case avg > 40:
		fmt.Fprintf(&sb, " with moderate relevance (avg. %.0f%% match)", avg)
	}
	sb.WriteString(".")
	return sb.String()
}
