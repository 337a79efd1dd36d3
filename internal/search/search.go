// Package search provides web search over the DuckDuckGo HTML endpoint
package search

import (
	"context"
	"strings"
)

// NoResultsSentinel is what a text run returns when a query found nothing
const NoResultsSentinel = "No good DuckDuckGo Search Result was found"

// Result is a single search hit
type Result struct {
	Title string `json:"title"`
	URL   string `json:"href"`
	Body  string `json:"body"`
	Date  string `json:"date,omitempty"`  // News only
	Site  string `json:"source,omitempty"` // News only
}

// Searcher runs web and news searches
type Searcher interface {
	Text(ctx context.Context, query string, maxResults int) ([]Result, error)
	News(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Waiter spaces outbound calls
type Waiter interface {
	Wait(ctx context.Context) error
}

// RunText returns the result snippets of a text search joined into one
// string, or NoResultsSentinel when there were none
func RunText(ctx context.Context, s Searcher, query string, maxResults int) (string, error) {
	results, err := s.Text(ctx, query, maxResults)
	if err != nil {
		return "", err
	}

	var snippets []string
	for _, r := range results {
		if body := strings.TrimSpace(r.Body); body != "" {
			snippets = append(snippets, body)
		}
	}
	if len(snippets) == 0 {
		return NoResultsSentinel, nil
	}
	return strings.Join(snippets, " "), nil
}

// IsNoResults reports whether text is the no-results sentinel
func IsNoResults(text string) bool {
	return strings.Contains(text, "No good DuckDuckGo Search Result")
}
