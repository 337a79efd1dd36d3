// Package llmtest provides a scripted Provider for tests
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/ppiankov/claimaudit/internal/llm"
)

// Provider is a scripted llm.Provider. Respond decides every completion;
// when nil, Complete fails.
type Provider struct {
	Respond   func(req llm.CompletionRequest) (string, error)
	Available bool

	mu       sync.Mutex
	requests []llm.CompletionRequest
}

// New returns an available fake that answers with respond
func New(respond func(req llm.CompletionRequest) (string, error)) *Provider {
	return &Provider{Respond: respond, Available: true}
}

// Name returns "fake"
func (p *Provider) Name() string { return "fake" }

// IsAvailable returns the Available field
func (p *Provider) IsAvailable(context.Context) bool { return p.Available }

// Complete records the request and returns the scripted answer
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Respond == nil {
		return nil, errors.New("llmtest: no responder")
	}
	text, err := p.Respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Text: text, Model: "fake"}, nil
}

// Calls returns the number of completions requested so far
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Requests returns a copy of every request seen
func (p *Provider) Requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.requests...)
}
