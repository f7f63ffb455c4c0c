package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenRouterClient implements Client over OpenRouter's OpenAI-compatible chat completions
type OpenRouterClient struct {
	client *openai.Client
	config *Config
}

// NewOpenRouterClient creates a new OpenRouter client
func NewOpenRouterClient(config *Config) (*OpenRouterClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigurationError{Message: "API key is required"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
		// retries belong to the enhancer
		option.WithMaxRetries(0),
	}
	if config.AppURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", config.AppURL))
	}
	if config.AppName != "" {
		opts = append(opts, option.WithHeader("X-Title", config.AppName))
	}
	if config.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.RequestTimeout))
	}

	client := openai.NewClient(opts...)

	return &OpenRouterClient{
		client: &client,
		config: config,
	}, nil
}

// Complete sends the prompt as a single user message
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(c.config.MaxTokens),
		Temperature: openai.Float(c.config.Temperature),
		TopP:        openai.Float(c.config.TopP),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, toTransportError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &MalformedAPIResponseError{Message: "response has no choices"}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, &MalformedAPIResponseError{Message: "first choice has no message content"}
	}

	return &Completion{
		Text:  text,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Model returns the configured model identifier
func (c *OpenRouterClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the SDK client holds no resources of its own
func (c *OpenRouterClient) Close() error {
	return nil
}

// toTransportError maps SDK failures to TransportError, keeping status and body
func toTransportError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &TransportError{
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.RawJSON(),
			Cause:      err,
		}
	}
	return &TransportError{Cause: err}
}
