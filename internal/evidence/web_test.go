package evidence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
	"github.com/ppiankov/claimaudit/internal/search/searchtest"
)

func financialClaim() model.Claim {
	return model.Claim{
		Text:     "Revenue increased by 15% this quarter",
		Category: model.CategoryFinancial,
		Metadata: model.ClaimMetadata{ExtractedValue: "15%"},
	}
}

func TestWebQueries(t *testing.T) {
	queries := WebQueries(financialClaim())
	require.Len(t, queries, 8)
	assert.Equal(t, "financial performance 15% revenue growth", queries[0])
	assert.Equal(t, "industry benchmarks financial 15%", queries[5])
	assert.Equal(t, "independent audit financial performance", queries[7])

	legal := WebQueries(model.Claim{Category: model.CategoryLegalCompliance})
	assert.Equal(t, "regulatory compliance audit results", legal[0])
	assert.Equal(t, "industry benchmarks legal & compliance", legal[5])
}

func TestCatalogue_Find(t *testing.T) {
	sources, err := Catalogue{}.Find(context.Background(), "q", model.CategoryLegalCompliance)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, "European Data Protection Board - GDPR", sources[0].Title)
	assert.Equal(t, 96, sources[0].RelevanceScore)
	assert.Equal(t, "https://www.industry-benchmarks.org/legal-&-compliance", sources[2].URL)
	assert.Equal(t, "Industry Benchmarks - Legal & Compliance Performance", sources[2].Title)
	for _, s := range sources {
		assert.Equal(t, "q", s.SearchQuery)
	}
}

func TestWebCollector_Catalogue(t *testing.T) {
	collector := NewWebCollector(Catalogue{}, model.EvidenceConfig{}, nil)

	all, kept, err := collector.Collect(context.Background(), financialClaim())
	require.NoError(t, err)
	assert.Len(t, all, 9)
	assert.Len(t, kept, 5)
	assert.Equal(t, "financial performance 15% revenue growth", kept[0].SearchQuery)
	assert.Equal(t, "company earnings 15% profit increase", kept[3].SearchQuery)
}

type failingFinder struct{}

func (failingFinder) Find(context.Context, string, model.Category) ([]model.WebSource, error) {
	return nil, errors.New("down")
}

func TestWebCollector_FailuresSkipped(t *testing.T) {
	all, kept, err := NewWebCollector(failingFinder{}, model.EvidenceConfig{}, nil).Collect(context.Background(), financialClaim())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, kept)
}

func TestLiveFinder(t *testing.T) {
	query := "SEC filings revenue growth 15%"
	searcher := &searchtest.Searcher{TextResults: map[string][]search.Result{
		query: {
			{Title: "SEC revenue filings", URL: "https://www.sec.gov/cgi-bin/browse-edgar", Body: "revenue growth data"},
			{Title: "My hot take", URL: "https://www.random-blog.com/p/1", Body: "revenue"},
		},
	}}

	sources, err := NewLiveFinder(searcher, nil, 5).Find(context.Background(), query, model.CategoryFinancial)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, SourceGovernment, sources[0].SourceType)
	assert.Equal(t, 55, sources[0].RelevanceScore)
	assert.Equal(t, "revenue growth data", sources[0].Snippet)
}

func TestSummaryAndReasoningWithWeb(t *testing.T) {
	all, _, err := NewWebCollector(Catalogue{}, model.EvidenceConfig{}, nil).Collect(context.Background(), financialClaim())
	require.NoError(t, err)

	assert.Equal(t,
		"Base. Web verification found 9 relevant sources including 3 government, 3 financial, 3 industry sources.",
		SummaryWithWeb("Base.", all))
	assert.Equal(t,
		"Why. Independent web verification identified 9 supporting sources with 6 from highly credible institutions showing high relevance (avg. 86% match).",
		ReasoningWithWeb("Why.", all))

	assert.Equal(t, "Base.", SummaryWithWeb("Base.", nil))
	assert.Equal(t, "Why.", ReasoningWithWeb("Why.", nil))

	moderate := []model.WebSource{{SourceType: SourceIndustry, RelevanceScore: 50}}
	assert.Equal(t, "R Independent web verification identified 1 supporting sources with moderate relevance (avg. 50% match).",
		ReasoningWithWeb("R", moderate))
}
