package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimaudit/internal/cache"
	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/llm/llmtest"
)

func TestWithCache_ReusesResponses(t *testing.T) {
	fake := llmtest.New(func(req llm.CompletionRequest) (string, error) {
		return "Financial", nil
	})
	p := llm.WithCache(fake, cache.NewMemoryCache(time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		resp, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "same"})
		require.NoError(t, err)
		assert.Equal(t, "Financial", resp.Text)
	}
	assert.Equal(t, 1, fake.Calls())

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "different"})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls())
}

func TestWithCache_DoesNotStoreErrors(t *testing.T) {
	fail := true
	fake := llmtest.New(func(req llm.CompletionRequest) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok", nil
	})
	p := llm.WithCache(fake, cache.NewMemoryCache(time.Minute, time.Minute))

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "q"})
	require.Error(t, err)

	fail = false
	resp, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, fake.Calls())
}

func TestWithCache_NilCache(t *testing.T) {
	fake := llmtest.New(nil)
	assert.Same(t, fake, llm.WithCache(fake, nil))
}

func TestRender(t *testing.T) {
	out := llm.Render(llm.ClassifyClaimPrompt, map[string]string{"claim_text": "Revenue rose {a lot}"})
	assert.Contains(t, out, `Claim: "Revenue rose {a lot}"`)
	assert.NotContains(t, out, "{claim_text}")
}
