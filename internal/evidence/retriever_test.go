package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/corpus"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/llm/llmtest"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/search"
	"github.com/ppiankov/claimaudit/internal/search/searchtest"
)

func queriesResponse(text string) *llmtest.Provider {
	return llmtest.New(func(req llm.CompletionRequest) (string, error) {
		return text, nil
	})
}

func TestParseQueries(t *testing.T) {
	got := ParseQueries("1. revenue growth 2024\n2) SEC filings\n\n- revenue growth 2024\n* audit report\n  3.   annual report\n6. extra\n", 4)
	assert.Equal(t, []string{"revenue growth 2024", "SEC filings", "audit report", "annual report"}, got)
}

func TestRetrieve_CorpusMatches(t *testing.T) {
	c := corpus.New([]ingest.Chunk{
		{Text: "Revenue growth is strong this year", Source: "evidence_paper_1.pdf"},
		{Text: "Carbon emissions were flat", Source: "evidence_paper_1.pdf"},
		{Text: "Revenue only", Source: ""},
	})
	searcher := &searchtest.Searcher{}
	provider := queriesResponse("1. revenue growth\n2) carbon\n- revenue growth")

	r := NewRetriever(provider, c, searcher, model.EvidenceConfig{}, nil)
	ev, err := r.Retrieve(context.Background(), "Revenue grew")
	require.NoError(t, err)
	require.Equal(t, 3, ev.Len())

	assert.Equal(t, "Revenue growth is strong this year", ev.Items[0].RetrievedContent)
	assert.Equal(t, 2, ev.Items[0].RelevanceScore)
	assert.Equal(t, "revenue growth", ev.Items[0].SourceQuery)

	// Equal scores keep discovery order
	assert.Equal(t, "Revenue only", ev.Items[1].RetrievedContent)
	assert.Equal(t, corpus.LocalSource, ev.Items[1].Source)
	assert.Equal(t, "carbon", ev.Items[2].SourceQuery)

	assert.Empty(t, searcher.Queries(), "web search must not run when the corpus matched")
	assert.Equal(t, 1, provider.Calls())
}

func TestRetrieve_TopN(t *testing.T) {
	var chunks []ingest.Chunk
	for i := 0; i < 6; i++ {
		chunks = append(chunks, ingest.Chunk{Text: strings.Repeat("audit ", i+1), Source: "evidence_paper_1.pdf"})
	}
	r := NewRetriever(queriesResponse("audit"), corpus.New(chunks), nil, model.EvidenceConfig{TopN: 2}, nil)

	ev, err := r.Retrieve(context.Background(), "claim")
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Len())
}

func TestRetrieve_WebFallback(t *testing.T) {
	searcher := &searchtest.Searcher{
		TextResults: map[string][]search.Result{
			"q one": {{Title: "a", URL: "https://a", Body: "first snippet"}, {Title: "b", URL: "https://b", Body: "second"}},
		},
		Errors: map[string]error{"q two": errors.New("blocked")},
	}
	r := NewRetriever(queriesResponse("q one\nq two\nq three"), corpus.New(nil), searcher, model.EvidenceConfig{}, nil)

	ev, err := r.Retrieve(context.Background(), "claim")
	require.NoError(t, err)
	require.Equal(t, 1, ev.Len())
	assert.Equal(t, WebSource, ev.Items[0].Source)
	assert.Equal(t, 0, ev.Items[0].RelevanceScore)
	assert.Equal(t, "first snippet second", ev.Items[0].RetrievedContent)
	assert.Equal(t, []string{"q one", "q two", "q three"}, searcher.Queries())
}

func TestRetrieve_OnlySentinelResultsIsEmpty(t *testing.T) {
	searcher := &searchtest.Searcher{
		TextResults: map[string][]search.Result{
			"q one": {{Title: "empty", URL: "https://a"}},
		},
	}
	r := NewRetriever(queriesResponse("q one\nq two"), corpus.New([]ingest.Chunk{{Text: "zzz"}}), searcher, model.EvidenceConfig{}, nil)

	ev, err := r.Retrieve(context.Background(), "claim")
	require.NoError(t, err)
	assert.True(t, ev.IsEmpty())

	raw, err := ev.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"No reliable evidence was found."`, string(raw))
}

func TestRetrieve_NoSearcher(t *testing.T) {
	r := NewRetriever(queriesResponse("q"), nil, nil, model.EvidenceConfig{}, nil)
	ev, err := r.Retrieve(context.Background(), "claim")
	require.NoError(t, err)
	assert.True(t, ev.IsEmpty())
}

func TestRetrieve_ModelError(t *testing.T) {
	provider := llmtest.New(func(llm.CompletionRequest) (string, error) {
		return "", errors.New("rate limited")
	})
	r := NewRetriever(provider, nil, nil, model.EvidenceConfig{}, nil)

	ev, err := r.Retrieve(context.Background(), "claim")
	assert.Error(t, err)
	assert.True(t, ev.IsEmpty())
}

func TestRetrieve_PromptCarriesClaim(t *testing.T) {
	provider := queriesResponse("")
	r := NewRetriever(provider, nil, nil, model.EvidenceConfig{}, nil)
	_, err := r.Retrieve(context.Background(), "Profit doubled")
	require.NoError(t, err)

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, `Claim: "Profit doubled"`)
}
