package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimaudit/internal/llm"
	"github.com/ppiankov/claimaudit/internal/model"
)

// Classifier assigns one of the four categories to a claim
type Classifier struct {
	provider llm.Provider
}

// NewClassifier creates a new classifier
func NewClassifier(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify returns the claim's category. A response that is not exactly one
// of the four labels becomes Operational.
func (c *Classifier) Classify(ctx context.Context, claimText string) (model.Category, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: llm.Render(llm.ClassifyClaimPrompt, map[string]string{"claim_text": claimText}),
	})
	if err != nil {
		return "", fmt.Errorf("classify claim: %w", err)
	}
	return CategoryFromLabel(resp.Text), nil
}

// CategoryFromLabel maps an exact classifier label to its category
func CategoryFromLabel(label string) model.Category {
	label = strings.TrimSpace(label)
	for _, c := range model.Categories {
		if label == c.Label() {
			return c
		}
	}
	return model.CategoryOperational
}
