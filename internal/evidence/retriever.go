// Package evidence finds evidence for claims: corpus and web retrieval for
// the model-driven pipeline, and credible web sources for enhancement.
package evidence

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/corpus"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
)

// WebSource is the item source of web fallback results
const WebSource = "Web"

// Retriever gathers evidence for a claim from the corpus, falling back to
// web search when the corpus has nothing
type Retriever struct {
	provider   llm.Provider
	corpus     *corpus.Corpus
	searcher   search.Searcher // nil disables the web fallback
	queries    int
	topN       int
	webResults int
	logger     *zap.Logger
}

// NewRetriever creates a new retriever. searcher may be nil.
func NewRetriever(provider llm.Provider, c *corpus.Corpus, searcher search.Searcher, cfg model.EvidenceConfig, logger *zap.Logger) *Retriever {
	r := &Retriever{
		provider:   provider,
		corpus:     c,
		searcher:   searcher,
		queries:    cfg.QueriesPerClaim,
		topN:       cfg.TopN,
		webResults: cfg.WebResultsPerQuery,
		logger:     logging.OrNop(logger),
	}
	if r.queries <= 0 {
		r.queries = 5
	}
	if r.topN <= 0 {
		r.topN = 3
	}
	if r.webResults <= 0 {
		r.webResults = 5
	}
	return r
}

// Retrieve generates search queries for the claim and collects the best
// evidence items. Web search runs only when no query matched the corpus.
// A model error is returned; a failed web search is logged and skipped.
func (r *Retriever) Retrieve(ctx context.Context, claimText string) (model.Evidence, error) {
	queries, err := r.Queries(ctx, claimText)
	if err != nil {
		return model.NoEvidence(), err
	}
	r.logger.Debug("generated queries", zap.Int("queries", len(queries)))

	items := r.searchCorpus(queries)
	if len(items) == 0 {
		r.logger.Debug("no corpus evidence, falling back to web search")
		items, err = r.searchWeb(ctx, queries)
		if err != nil {
			return model.NoEvidence(), err
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
	if len(items) > r.topN {
		items = items[:r.topN]
	}
	return model.EvidenceOf(items), nil
}

// Queries asks the model for search queries for a claim
func (r *Retriever) Queries(ctx context.Context, claimText string) ([]string, error) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: llm.Render(llm.GenerateQueriesPrompt, map[string]string{"claim_text": claimText}),
	})
	if err != nil {
		return nil, fmt.Errorf("generate queries: %w", err)
	}
	return ParseQueries(resp.Text, r.queries), nil
}

func (r *Retriever) searchCorpus(queries []string) []model.EvidenceItem {
	var items []model.EvidenceItem
	for _, q := range queries {
		for _, m := range r.corpus.Search(q) {
			items = append(items, model.EvidenceItem{
				SourceQuery:      q,
				RetrievedContent: m.Chunk.Text,
				Source:           m.Source,
				RelevanceScore:   m.Score,
			})
		}
	}
	return items
}

func (r *Retriever) searchWeb(ctx context.Context, queries []string) ([]model.EvidenceItem, error) {
	if r.searcher == nil {
		return nil, nil
	}

	var items []model.EvidenceItem
	for _, q := range queries {
		text, err := search.RunText(ctx, r.searcher, q, r.webResults)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("web search failed", zap.String("query", q), zap.Error(err))
			continue
		}
		if text == "" || search.IsNoResults(text) {
			continue
		}
		items = append(items, model.EvidenceItem{
			SourceQuery:      q,
			RetrievedContent: text,
			Source:           WebSource,
			RelevanceScore:   0,
		})
	}
	return items, nil
}
