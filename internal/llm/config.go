// Package llm provides the completion client used by the enhancement pipeline.
// It hides the provider behind a small interface so callers can swap in stubs.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenRouter routes OpenAI-compatible chat completions through OpenRouter
	ProviderOpenRouter Provider = "openrouter"
	// ProviderAnthropic calls the Anthropic Messages API directly
	ProviderAnthropic Provider = "anthropic"
)

const (
	// DefaultOpenRouterBaseURL is the OpenRouter OpenAI-compatible endpoint
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel is the model identifier sent to OpenRouter
	DefaultOpenRouterModel = "anthropic/claude-3.5-sonnet"
	// DefaultAnthropicModel is the model identifier sent to Anthropic directly
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"

	// DefaultMaxTokens bounds the completion length
	DefaultMaxTokens = 1500
	// DefaultTemperature is kept low to bias toward consistent, parseable JSON
	DefaultTemperature = 0.3
	// DefaultTopP leaves nucleus sampling open
	DefaultTopP = 1.0
)

// Config holds the completion settings for the application
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
	TopP        float64
	// RequestTimeout is passed to the SDK as a per-request timeout; zero disables it
	RequestTimeout time.Duration
	// AppURL and AppName identify this service to OpenRouter
	AppURL  string
	AppName string
}

// DefaultConfig returns the default configuration (OpenRouter)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenRouter,
		Model:       DefaultOpenRouterModel,
		BaseURL:     DefaultOpenRouterBaseURL,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		AppURL:      "https://lightwalker.app",
		AppName:     "Lightwalker",
	}
}

// WithAPIKey returns a copy of the config carrying the given key
func (c *Config) WithAPIKey(apiKey string) *Config {
	next := *c
	next.APIKey = apiKey
	return &next
}

// withDefaults fills zero values from DefaultConfig. Temperature is left as
// given: zero is a valid setting, and DefaultConfig or the config layer
// supplies 0.3.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	next := *c
	if next.Provider == "" {
		next.Provider = d.Provider
	}
	if next.Model == "" {
		if next.Provider == ProviderAnthropic {
			next.Model = DefaultAnthropicModel
		} else {
			next.Model = d.Model
		}
	}
	if next.BaseURL == "" && next.Provider == ProviderOpenRouter {
		next.BaseURL = d.BaseURL
	}
	if next.MaxTokens == 0 {
		next.MaxTokens = d.MaxTokens
	}
	if next.TopP == 0 {
		next.TopP = d.TopP
	}
	if next.AppName == "" {
		next.AppName = d.AppName
	}
	if next.AppURL == "" {
		next.AppURL = d.AppURL
	}
	return &next
}
