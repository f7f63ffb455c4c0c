package parsing

import "fmt"

// JSONParseError is returned when the completion text is not valid JSON
// even after code fences and surrounding prose are stripped
type JSONParseError struct {
	Raw   string
	Cause error
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v (raw: %q)", e.Cause, excerpt(e.Raw))
}

func (e *JSONParseError) Unwrap() error {
	return e.Cause
}

// InvalidResponseStructureError is returned when the JSON is well formed
// but lacks a dailyDoItems array
type InvalidResponseStructureError struct {
	Message string
	Cause   error
}

func (e *InvalidResponseStructureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid response structure: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid response structure: %s", e.Message)
}

func (e *InvalidResponseStructureError) Unwrap() error {
	return e.Cause
}

// NoValidItemsError is returned when every candidate element was dropped
type NoValidItemsError struct {
	Candidates int
}

func (e *NoValidItemsError) Error() string {
	if e.Candidates == 0 {
		return "response contained no items"
	}
	return fmt.Sprintf("none of the %d items in the response were valid", e.Candidates)
}

func excerpt(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
