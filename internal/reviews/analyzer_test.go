package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
	"github.com/ppiankov/claimaudit/internal/search/searchtest"
)

const collegeDuniaURL = "https://collegedunia.com/university/dtu/reviews"

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, u string) (string, error) {
	f.fetched = append(f.fetched, u)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, ok := f.pages[u]
	if !ok {
		return "", errors.New("not found")
	}
	return body, nil
}

func scriptedSearcher() *searchtest.Searcher {
	return &searchtest.Searcher{
		TextResults: map[string][]search.Result{
			`site:nirfindia.org "Delhi Technological University"`: {
				{Title: "Unrelated nirf page", URL: "https://www.nirfindia.org/other", Body: "Some other institute ranked 5"},
				{Title: "NIRF 2023 Engineering", URL: "https://www.nirfindia.org/2023/EngineeringRanking.html",
					Body: "Delhi Technological University ranked 27 in engineering"},
			},
			`site:collegedunia.com "Delhi Technological University" reviews`: {
				{Title: "DTU Reviews", URL: collegeDuniaURL},
				{Title: "Other site", URL: "https://example.com/dtu"},
			},
			`site:reddit.com "Delhi Technological University" experience`: {
				{Title: "Delhi Technological University experience", URL: "https://www.reddit.com/r/india/comments/x",
					Body: "Honest thoughts: the campus is great and professors are excellent."},
				{Title: "Blog", URL: "https://blog.example.org/dtu", Body: "Delhi Technological University blog post with lots of text in it."},
			},
		},
		NewsResults: map[string][]search.Result{
			`"Delhi Technological University" controversy scandal`: {
				{Title: "Delhi Technological University faces fraud investigation", URL: "https://www.thehindu.com/news/x",
					Body: "Officials questioned over fee issues.", Date: "2024-03-01"},
			},
		},
		Errors: map[string]error{
			`site:quora.com "Delhi Technological University" review`: errors.New("boom"),
		},
	}
}

func TestAnalyzer_Search(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{collegeDuniaURL: collegeDuniaPage}}
	m := metrics.New(false)
	a := NewAnalyzer(Options{Searcher: scriptedSearcher(), Fetcher: fetcher, Structured: true, Metrics: m})

	result, err := a.Search(context.Background(), "  "+dtu+" ")
	require.NoError(t, err)

	assert.Equal(t, dtu, result.UniversityName)
	assert.Equal(t, model.SearchStatusSuccess, result.SearchStatus)
	assert.Empty(t, result.Error)

	require.NotNil(t, result.NIRFRanking)
	require.NotNil(t, result.NIRFRanking.Ranking)
	assert.Equal(t, 27, *result.NIRFRanking.Ranking)
	assert.Equal(t, "2023", result.NIRFRanking.Year)
	assert.Equal(t, "Engineering", result.NIRFRanking.Category)
	assert.True(t, result.NIRFRanking.Verified)
	assert.Equal(t, RankingOfficial, result.NIRFRanking.Source)

	// Only the platform page is fetched
	assert.Equal(t, []string{collegeDuniaURL}, fetcher.fetched)

	require.Len(t, result.NegativeReviews, 2)
	require.Len(t, result.PositiveReviews, 2)
	assert.Equal(t, "CollegeDunia", result.PositiveReviews[0].Source)
	assert.Equal(t, "Reddit Discussion", result.PositiveReviews[1].Source)
	assert.Equal(t, "Reddit", result.PositiveReviews[1].Platform)
	assert.Equal(t, TypeSocialMedia, result.PositiveReviews[1].ReviewType)

	news := result.NegativeReviews[1]
	assert.Equal(t, TypeNewsMention, news.ReviewType)
	assert.Equal(t, "high", news.Severity)
	assert.Equal(t, "2024-03-01", news.Date)
	assert.Equal(t, "Thehindu", news.Source)

	assert.Equal(t, 2, result.ReviewSummary.TotalNegativeReviews)
	assert.Equal(t, 2, result.ReviewSummary.TotalPositiveReviews)
	assert.Equal(t, 4.5, result.ReviewSummary.AverageRating)
	require.NotEmpty(t, result.ReviewSummary.CommonComplaints)
	assert.Equal(t, "infrastructure", result.ReviewSummary.CommonComplaints[0].Category)

	require.Len(t, result.Sources, 3)
	assert.Equal(t, "review_platform", result.Sources[0].Type)
	assert.Equal(t, "collegedunia.com", result.Sources[0].Platform)
	assert.Equal(t, "social_media", result.Sources[1].Type)
	assert.Equal(t, "news_article", result.Sources[2].Type)
	assert.Equal(t, "2024-03-01", result.Sources[2].Date)

	assert.True(t, result.DebugInfo.WebSearchAvailable)
	assert.Equal(t, 10, result.DebugInfo.SearchAttempts)
	assert.Equal(t, []string{"collegedunia.com"}, result.DebugInfo.ScrapedPlatforms)
	require.Len(t, result.DebugInfo.Errors, 1)
	assert.Equal(t, `Error in social query 'site:quora.com "Delhi Technological University" review': boom`, result.DebugInfo.Errors[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewLookupsTotal.WithLabelValues(model.SearchStatusSuccess)))
}

func TestAnalyzer_NoData(t *testing.T) {
	a := NewAnalyzer(Options{Searcher: &searchtest.Searcher{}, Structured: true})

	result, err := a.Search(context.Background(), dtu)
	require.NoError(t, err)
	assert.Equal(t, model.SearchStatusNoDataFound, result.SearchStatus)
	assert.Equal(t, noDataMessage, result.Error)
	assert.Zero(t, result.ReviewSummary.TotalNegativeReviews)
	assert.Zero(t, result.ReviewSummary.TotalPositiveReviews)
	assert.NotNil(t, result.ReviewSummary.CommonComplaints)

	require.NotNil(t, result.NIRFRanking)
	assert.Nil(t, result.NIRFRanking.Ranking)
	assert.Equal(t, RankingNotFound, result.NIRFRanking.Source)
	assert.Equal(t, "No official ranking found for "+dtu, result.NIRFRanking.Note)
	assert.Equal(t, 10, result.DebugInfo.SearchAttempts)
}

func TestAnalyzer_NoSearcher(t *testing.T) {
	result, err := NewAnalyzer(Options{}).Search(context.Background(), dtu)
	require.NoError(t, err)
	assert.Equal(t, model.SearchStatusError, result.SearchStatus)
	assert.False(t, result.DebugInfo.WebSearchAvailable)
	assert.Equal(t, []string{searchUnavailableMessage}, result.DebugInfo.Errors)
}

func TestAnalyzer_AlternativeRanking(t *testing.T) {
	tests := []struct {
		desc     string
		searcher *searchtest.Searcher
		source   string
		ranking  int
	}{
		{
			desc: "alternative hit",
			searcher: &searchtest.Searcher{TextResults: map[string][]search.Result{
				`"Delhi Technological University" QS ranking world university`: {
					{Title: "QS 2024", URL: "https://www.topuniversities.com/dtu",
						Body: "Delhi Technological University ranked 601 in QS World University Rankings 2024"},
				},
			}},
			source:  RankingAlternative,
			ranking: 601,
		},
		{
			desc: "alternative search fails",
			searcher: &searchtest.Searcher{Errors: map[string]error{
				`"Delhi Technological University" ranking India 2024`: errors.New("rate limited"),
			}},
			source: RankingFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result, err := NewAnalyzer(Options{Searcher: tt.searcher}).Search(context.Background(), dtu)
			require.NoError(t, err)
			r := result.NIRFRanking
			require.NotNil(t, r)
			assert.Equal(t, tt.source, r.Source)
			assert.False(t, r.Verified)
			if tt.ranking == 0 {
				assert.Nil(t, r.Ranking)
				assert.Equal(t, "rate limited", r.Error)
				return
			}
			require.NotNil(t, r.Ranking)
			assert.Equal(t, tt.ranking, *r.Ranking)
			assert.Equal(t, "University", r.Category)
		})
	}
}

func TestAnalyzer_RawMode(t *testing.T) {
	searcher := &searchtest.Searcher{TextResults: map[string][]search.Result{
		`site:shiksha.com "Delhi Technological University" reviews`: {{Title: "", URL: "https://www.shiksha.com/dtu"}},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.shiksha.com/dtu": `<div class="review">Delhi Technological University has great labs and excellent campus facilities.</div>`,
	}}

	result, err := NewAnalyzer(Options{Searcher: searcher, Fetcher: fetcher, Structured: false}).Search(context.Background(), dtu)
	require.NoError(t, err)
	require.Len(t, result.PositiveReviews, 1)
	assert.Equal(t, TypeScrapedReview, result.PositiveReviews[0].ReviewType)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "www.shiksha.com Reviews", result.Sources[0].Title)
}

func TestAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(Options{Searcher: &searchtest.Searcher{}}).Search(ctx, dtu)
	assert.ErrorIs(t, err, context.Canceled)
}
