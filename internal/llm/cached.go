package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/claimaudit/internal/cache"
)

// CachedProvider memoizes completions by prompt. Only successful
// responses are stored.
type CachedProvider struct {
	Provider
	cache cache.Cache
}

// WithCache wraps p with a response cache. A nil cache returns p unchanged.
func WithCache(p Provider, c cache.Cache) Provider {
	if p == nil || c == nil {
		return p
	}
	return &CachedProvider{Provider: p, cache: c}
}

// Complete returns a cached response when one exists
func (p *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := cache.Key("llm", p.Provider.Name(), req.Model, req.System, req.Prompt,
		fmt.Sprintf("%d", req.MaxTokens), fmt.Sprintf("%.3f", req.Temperature))

	if raw, ok := p.cache.Get(key); ok {
		var resp CompletionResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			return &resp, nil
		}
	}

	resp, err := p.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(resp); err == nil {
		_ = p.cache.Set(key, raw, 0)
	}
	return resp, nil
}
