package llm

import (
	"context"
	"fmt"
)

// Usage is the token accounting reported by the provider, if any
type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}

// Completion holds the first completion's text plus usage metadata
type Completion struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// Client is an abstraction over completion providers.
// Implementations send the prompt as a single user turn and never retry.
type Client interface {
	// Complete sends prompt and returns the first completion
	Complete(ctx context.Context, prompt string) (*Completion, error)
	// Model returns the model identifier requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// A missing API key fails here, before any network call is attempted.
func NewClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, &ConfigurationError{Message: "API key is required"}
	}
	config = config.withDefaults()

	switch config.Provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient(config)
	case ProviderAnthropic:
		return NewAnthropicClient(config)
	default:
		return nil, &ConfigurationError{Message: fmt.Sprintf("unknown provider %q", config.Provider)}
	}
}
