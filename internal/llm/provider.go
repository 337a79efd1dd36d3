package llm

import (
	"context"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Provider defines the interface for chat-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the model text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single completion
type CompletionRequest struct {
	// System is an optional system message
	System string

	// Prompt is the rendered user prompt
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length (0 uses config)
	MaxTokens int

	// Temperature overrides the configured temperature when non-zero
	Temperature float32
}

// CompletionResponse contains the model output
type CompletionResponse struct {
	// Text is the raw completion text, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "" or "none"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Referer and Title are sent as HTTP-Referer / X-Title attribution headers
	Referer string
	Title   string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		MaxTokens:   1024,
		Temperature: 0.1,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		Referer:     modelConfig.Referer,
		Title:       modelConfig.Title,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
		NoProxy:     modelConfig.NoProxy,
	}
}

// resolve fills request defaults from the provider config
func (c Config) resolve(req CompletionRequest) (modelName string, maxTokens int, temperature float32) {
	modelName = req.Model
	if modelName == "" {
		modelName = c.Model
	}
	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}
	temperature = req.Temperature
	if temperature == 0 {
		temperature = c.Temperature
	}
	return modelName, maxTokens, temperature
}
