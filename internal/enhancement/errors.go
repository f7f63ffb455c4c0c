package enhancement

import "fmt"

// InvalidRequestError is returned when a request lacks the fields a prompt needs.
// It is not retried.
type InvalidRequestError struct {
	Message string
	Cause   error
}

func (e *InvalidRequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid enhancement request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid enhancement request: %s", e.Message)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Cause
}

// AttemptError records which stage of which attempt failed
type AttemptError struct {
	Attempt int
	Stage   Stage
	Cause   error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("attempt %d failed while %s: %v", e.Attempt, e.Stage, e.Cause)
}

func (e *AttemptError) Unwrap() error {
	return e.Cause
}
