package batch

import "fmt"

// SourceAttributesDecodeError is returned when a role model's string-encoded
// attribute list cannot be decoded
type SourceAttributesDecodeError struct {
	RoleModelID string
	Message     string
	Cause       error
}

func (e *SourceAttributesDecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("role model %s: %s: %v", e.RoleModelID, e.Message, e.Cause)
	}
	return fmt.Sprintf("role model %s: %s", e.RoleModelID, e.Message)
}

func (e *SourceAttributesDecodeError) Unwrap() error {
	return e.Cause
}

// PersistenceError is returned when an enhancement record cannot be written back
type PersistenceError struct {
	RoleModelID string
	Message     string
	Cause       error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("role model %s: %s: %v", e.RoleModelID, e.Message, e.Cause)
	}
	return fmt.Sprintf("role model %s: %s", e.RoleModelID, e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
