// Package reviews researches a university's reputation on the open web:
// rankings, review platforms, social media and news
package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
)

const (
	noDataMessage            = "No real review data found for this university"
	searchUnavailableMessage = "Web search dependencies not available"
)

var reviewPlatforms = []string{"collegedunia", "shiksha", "careers360", "getmyuni"}

// Options holds the collaborators of an Analyzer
type Options struct {
	Searcher   search.Searcher // nil makes every lookup fail with status error
	Fetcher    PageFetcher
	Registry   *Registry
	Structured bool // false extracts reviews from raw HTML
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Analyzer runs university lookups. Phases run in order and a failing query
// is recorded in the debug info without stopping the lookup.
type Analyzer struct {
	searcher   search.Searcher
	fetcher    PageFetcher
	registry   *Registry
	structured bool
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyzer creates an analyzer. The scraping mode is fixed here.
func NewAnalyzer(opts Options) *Analyzer {
	a := &Analyzer{
		searcher:   opts.Searcher,
		fetcher:    opts.Fetcher,
		registry:   opts.Registry,
		structured: opts.Structured,
		metrics:    opts.Metrics,
		logger:     logging.OrNop(opts.Logger),
		now:        time.Now,
	}
	if a.registry == nil {
		a.registry = NewRegistry()
	}
	return a
}

// Search researches one university. The returned error is non-nil only when
// ctx is done; every other failure is reported inside the result.
func (a *Analyzer) Search(ctx context.Context, university string) (*model.UniversitySearchResult, error) {
	university = strings.TrimSpace(university)
	result := model.NewUniversitySearchResult(university, a.now().Format(model.TimestampLayout))
	result.DebugInfo.WebSearchAvailable = a.searcher != nil

	if a.searcher == nil {
		result.SearchStatus = model.SearchStatusError
		result.Error = searchUnavailableMessage
		result.DebugInfo.Errors = append(result.DebugInfo.Errors, searchUnavailableMessage)
		a.metrics.ObserveReviewLookup(result.SearchStatus, 0, 0)
		return result, nil
	}

	a.logger.Info("starting university search", zap.String("university", university))

	ranking, err := a.fetchRanking(ctx, university, result)
	if err != nil {
		return nil, err
	}
	result.NIRFRanking = ranking

	phases := []func(context.Context, string, *model.UniversitySearchResult) error{
		a.searchPlatforms,
		a.searchSocial,
		a.searchNews,
	}
	for _, phase := range phases {
		if err := phase(ctx, university, result); err != nil {
			return nil, err
		}
	}

	Summarize(result)

	if len(result.NegativeReviews) == 0 && len(result.PositiveReviews) == 0 {
		result.SearchStatus = model.SearchStatusNoDataFound
		result.Error = noDataMessage
	}

	a.logger.Info("university search finished",
		zap.String("university", university),
		zap.String("status", result.SearchStatus),
		zap.Int("negative", len(result.NegativeReviews)),
		zap.Int("positive", len(result.PositiveReviews)))
	a.metrics.ObserveReviewLookup(result.SearchStatus, len(result.NegativeReviews), len(result.PositiveReviews))
	return result, nil
}

func (a *Analyzer) searchPlatforms(ctx context.Context, university string, result *model.UniversitySearchResult) error {
	for _, platform := range []string{"collegedunia.com", "shiksha.com", "careers360.com", "getmyuni.com"} {
		q := fmt.Sprintf(`site:%s "%s" reviews`, platform, university)
		hits, err := a.searcher.Text(ctx, q, 8)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.queryFailed(result, "platform", q, err)
			continue
		}
		result.DebugInfo.SearchAttempts++

		for _, hit := range hits {
			domain := Domain(hit.URL)
			if !isReviewPlatform(domain) {
				continue
			}
			reviews, err := a.scrapePage(ctx, hit.URL, university)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.logger.Warn("failed to scrape review page", zap.String("url", hit.URL), zap.Error(err))
				continue
			}
			if len(reviews) == 0 {
				continue
			}

			for _, r := range reviews {
				result.AddReview(r)
			}
			result.DebugInfo.ScrapedPlatforms = append(result.DebugInfo.ScrapedPlatforms, domain)
			title := hit.Title
			if title == "" {
				title = domain + " Reviews"
			}
			result.Sources = append(result.Sources, model.SourceRef{
				Title:       title,
				URL:         hit.URL,
				Type:        "review_platform",
				Platform:    domain,
				SearchQuery: q,
			})
			a.logger.Debug("scraped review platform", zap.String("domain", domain), zap.Int("reviews", len(reviews)))
		}
	}
	return nil
}

// scrapePage fetches a platform page and extracts its reviews in the mode
// chosen at construction
func (a *Analyzer) scrapePage(ctx context.Context, pageURL, university string) ([]model.Review, error) {
	if a.fetcher == nil {
		return nil, nil
	}
	body, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := a.page(pageURL, university)
	if !a.structured {
		return ExtractRawReviews(body, page), nil
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		a.logger.Debug("HTML parse failed, using raw extraction", zap.String("url", pageURL), zap.Error(err))
		return ExtractRawReviews(body, page), nil
	}
	return a.registry.Scrape(doc, page), nil
}

func socialQueries(u string) []string {
	return []string{
		fmt.Sprintf(`site:reddit.com "%s" experience`, u),
		fmt.Sprintf(`site:quora.com "%s" review`, u),
		fmt.Sprintf(`"%s" reddit student life`, u),
		fmt.Sprintf(`"%s" quora honest review`, u),
	}
}

func (a *Analyzer) searchSocial(ctx context.Context, university string, result *model.UniversitySearchResult) error {
	for _, q := range socialQueries(university) {
		hits, err := a.searcher.Text(ctx, q, 8)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.queryFailed(result, "social", q, err)
			continue
		}
		result.DebugInfo.SearchAttempts++

		for _, hit := range hits {
			review, ok := a.socialReview(hit, university)
			if !ok {
				continue
			}
			result.AddReview(review)
			title := hit.Title
			if title == "" {
				title = "Social Media Discussion"
			}
			result.Sources = append(result.Sources, model.SourceRef{
				Title:       title,
				URL:         hit.URL,
				Type:        "social_media",
				Platform:    review.Platform,
				SearchQuery: q,
			})
		}
	}
	return nil
}

func (a *Analyzer) socialReview(hit search.Result, university string) (model.Review, bool) {
	platform := SocialPlatform(hit.URL)
	if platform == "" {
		return model.Review{}, false
	}
	text := strings.TrimSpace(hit.Title + " " + hit.Body)
	if utf8.RuneCountInString(text) < 50 || !IsRelevant(text, university) {
		return model.Review{}, false
	}

	review := newReview(text, platform+" Discussion", a.page(hit.URL, university), TypeSocialMedia)
	review.Platform = platform
	return review, true
}

func newsQueries(u string) []string {
	return []string{
		fmt.Sprintf(`"%s" news 2024`, u),
		fmt.Sprintf(`"%s" controversy scandal`, u),
		fmt.Sprintf(`"%s" problems issues news`, u),
	}
}

func (a *Analyzer) searchNews(ctx context.Context, university string, result *model.UniversitySearchResult) error {
	for _, q := range newsQueries(university) {
		hits, err := a.searcher.News(ctx, q, 10)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.queryFailed(result, "news", q, err)
			continue
		}
		result.DebugInfo.SearchAttempts++

		for _, hit := range hits {
			review, ok := a.newsReview(hit, university)
			if !ok {
				continue
			}
			result.AddReview(review)
			title := hit.Title
			if title == "" {
				title = "News Article"
			}
			date := hit.Date
			if date == "" {
				date = "Unknown"
			}
			result.Sources = append(result.Sources, model.SourceRef{
				Title:       title,
				URL:         hit.URL,
				Type:        "news_article",
				Date:        date,
				SearchQuery: q,
			})
		}
	}
	return nil
}

func (a *Analyzer) newsReview(hit search.Result, university string) (model.Review, bool) {
	text := strings.TrimSpace(hit.Title + " " + hit.Body)
	if utf8.RuneCountInString(text) < 30 || !IsRelevant(text, university) {
		return model.Review{}, false
	}

	review := newReview(text, DisplayName(hit.URL), a.page(hit.URL, university), TypeNewsMention)
	review.Content = truncate(text, 400)
	review.Date = hit.Date
	review.Severity = Severity(text)
	return review, true
}

func (a *Analyzer) page(pageURL, university string) Page {
	return Page{URL: pageURL, University: university, DateFound: a.now().Format("2006-01-02")}
}

func (a *Analyzer) queryFailed(result *model.UniversitySearchResult, kind, query string, err error) {
	msg := fmt.Sprintf("Error in %s query '%s': %v", kind, query, err)
	a.logger.Warn("search query failed", zap.String("kind", kind), zap.String("query", query), zap.Error(err))
	result.DebugInfo.Errors = append(result.DebugInfo.Errors, msg)
}

func isReviewPlatform(domain string) bool {
	for _, p := range reviewPlatforms {
		if strings.Contains(domain, p) {
			return true
		}
	}
	return false
}
