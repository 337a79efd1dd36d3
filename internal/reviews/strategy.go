package reviews

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Review types
const (
	TypePlatformReview = "platform_review"
	TypeScrapedContent = "scraped_content"
	TypeScrapedReview  = "scraped_review"
	TypeSocialMedia    = "social_media"
	TypeNewsMention    = "news_mention"
)

const maxReviewChars = 300

// Page identifies the page being scraped and the university it should be about
type Page struct {
	URL        string
	University string
	DateFound  string // 2006-01-02
}

// ScraperStrategy extracts reviews from one review platform's markup
type ScraperStrategy interface {
	// Name returns the platform name used as the review source
	Name() string

	// CanHandle reports whether the strategy knows pages on domain
	CanHandle(domain string) bool

	// Scrape returns the reviews found in doc
	Scrape(doc *html.Node, page Page) []model.Review
}

// Registry dispatches a page to the strategy for its domain
type Registry struct {
	strategies []ScraperStrategy
	fallback   ScraperStrategy
}

// NewRegistry creates a registry with the built-in platform strategies and
// the generic fallback
func NewRegistry() *Registry {
	r := &Registry{fallback: genericStrategy{}}

	r.Register(&selectorStrategy{
		name:   "CollegeDunia",
		domain: "collegedunia",
		selectors: []cascadia.Matcher{
			cascadia.MustCompile(".review-card"),
			cascadia.MustCompile(".review-content"),
			cascadia.MustCompile(".student-review"),
			cascadia.MustCompile(`[class*="review"]`),
			cascadia.MustCompile(".comment-content"),
		},
		limit:      15,
		withRating: true,
	})
	r.Register(&selectorStrategy{
		name:   "Shiksha",
		domain: "shiksha",
		selectors: []cascadia.Matcher{
			cascadia.MustCompile(".review-text"),
			cascadia.MustCompile(".user-review"),
			cascadia.MustCompile(".review-description"),
			cascadia.MustCompile(`[class*="review"]`),
		},
		limit: 10,
	})
	r.Register(&selectorStrategy{
		name:      "Careers360",
		domain:    "careers360",
		selectors: []cascadia.Matcher{classFilter{
			sel: cascadia.MustCompile("div, p, span"),
			re:  regexp.MustCompile(`(?i)review|comment|feedback`),
		}},
		limit:     10,
	})
	r.Register(&selectorStrategy{
		name:   "GetMyUni",
		domain: "getmyuni",
		selectors: []cascadia.Matcher{
			cascadia.MustCompile(".review-content"),
			cascadia.MustCompile(".user-review"),
			cascadia.MustCompile(".student-review"),
			cascadia.MustCompile(`[class*="review"]`),
		},
		limit: 10,
	})

	return r
}

// Register adds a strategy. Strategies are tried in registration order.
func (r *Registry) Register(s ScraperStrategy) {
	r.strategies = append(r.strategies, s)
}

// Find returns the strategy for domain, or the generic fallback
func (r *Registry) Find(domain string) ScraperStrategy {
	domain = strings.ToLower(domain)
	for _, s := range r.strategies {
		if s.CanHandle(domain) {
			return s
		}
	}
	return r.fallback
}

// Scrape runs the strategy for the page's domain and drops repeated reviews
func (r *Registry) Scrape(doc *html.Node, page Page) []model.Review {
	return dedupe(r.Find(Domain(page.URL)).Scrape(doc, page))
}

// selectorStrategy collects the text of elements matched by each selector in
// turn, up to limit elements per selector
type selectorStrategy struct {
	name       string
	domain     string
	selectors  []cascadia.Matcher
	limit      int
	withRating bool
}

func (s *selectorStrategy) Name() string { return s.name }

func (s *selectorStrategy) CanHandle(domain string) bool {
	return strings.Contains(domain, s.domain)
}

func (s *selectorStrategy) Scrape(doc *html.Node, page Page) []model.Review {
	var out []model.Review
	for _, sel := range s.selectors {
		for _, el := range findAll(doc, sel, s.limit) {
			text := strippedText(el)
			if utf8.RuneCountInString(text) <= 30 || !IsRelevant(text, page.University) {
				continue
			}
			review := newReview(text, s.name, page, TypePlatformReview)
			if s.withRating {
				review.Rating = ExtractRating(rawText(el))
			}
			out = append(out, review)
		}
	}
	return out
}

var reviewBlocks = cascadia.MustCompile("p, div, span")

// genericStrategy looks for review-like paragraphs on unknown platforms
type genericStrategy struct{}

func (genericStrategy) Name() string { return "generic" }

func (genericStrategy) CanHandle(string) bool { return true }

func (genericStrategy) Scrape(doc *html.Node, page Page) []model.Review {
	var out []model.Review
	for _, el := range findAll(doc, reviewBlocks, 50) {
		text := strippedText(el)
		n := utf8.RuneCountInString(text)
		if n <= 50 || n >= 500 || !IsRelevant(text, page.University) || !LooksLikeReview(text) {
			continue
		}
		out = append(out, newReview(text, DisplayName(page.URL), page, TypeScrapedContent))
	}
	return out
}

func newReview(text, source string, page Page, reviewType string) model.Review {
	return model.Review{
		Content:        truncate(text, maxReviewChars),
		Source:         source,
		URL:            page.URL,
		Sentiment:      Sentiment(text),
		ReviewType:     reviewType,
		DateFound:      page.DateFound,
		Complaints:     Complaints(text),
		RelevanceScore: Relevance(text, page.University),
	}
}

// dedupe keeps the first review for each distinct content
func dedupe(reviews []model.Review) []model.Review {
	seen := make(map[string]bool, len(reviews))
	out := reviews[:0]
	for _, r := range reviews {
		if seen[r.Content] {
			continue
		}
		seen[r.Content] = true
		out = append(out, r)
	}
	return out
}
