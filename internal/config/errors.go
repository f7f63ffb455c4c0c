package config

import "fmt"

// ConfigurationError is returned for unreadable or out-of-range settings
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := "config error: "
	if e.Field != "" {
		msg += fmt.Sprintf("'%s' ", e.Field)
	}
	msg += e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
