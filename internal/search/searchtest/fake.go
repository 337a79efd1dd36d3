// Package searchtest provides a scripted Searcher for tests
package searchtest

import (
	"context"
	"sync"

	"github.com/ppiankov/claimaudit/internal/search"
)

// Searcher answers queries from maps keyed by query string.
// Unknown queries return no results; entries in Errors fail.
type Searcher struct {
	TextResults map[string][]search.Result
	NewsResults map[string][]search.Result
	Errors      map[string]error

	mu      sync.Mutex
	queries []string
}

// Text returns the scripted text results for query
func (s *Searcher) Text(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	return s.lookup(ctx, s.TextResults, query, maxResults)
}

// News returns the scripted news results for query
func (s *Searcher) News(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	return s.lookup(ctx, s.NewsResults, query, maxResults)
}

// Queries returns every query seen, in order
func (s *Searcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func (s *Searcher) lookup(ctx context.Context, table map[string][]search.Result, query string, maxResults int) ([]search.Result, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := s.Errors[query]; ok {
		return nil, err
	}
	results := table[query]
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
