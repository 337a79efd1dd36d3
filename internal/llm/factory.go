package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty or "none" provider returns nil, nil: model-driven stages are disabled.
func NewProvider(config Config, logger *zap.Logger) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai", "openrouter":
		p, err := NewOpenAIProvider(config, logger)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		p, err := NewOllamaProvider(config, logger)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama, none)", config.Provider)
	}
}
