package llm

import "fmt"

// ConfigurationError is returned when the client cannot be constructed.
// It is fatal and never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm configuration error: %s", e.Message)
}

// TransportError represents a network or non-2xx HTTP failure calling the provider
type TransportError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm transport error: HTTP %d: %s", e.StatusCode, truncate(e.Body, 300))
	}
	if e.Cause != nil {
		return fmt.Sprintf("llm transport error: %v", e.Cause)
	}
	return "llm transport error"
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MalformedAPIResponseError is returned when a 2xx response lacks the completion text
type MalformedAPIResponseError struct {
	Message string
}

func (e *MalformedAPIResponseError) Error() string {
	return fmt.Sprintf("malformed llm response: %s", e.Message)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
