package aggregate

import (
	"errors"
	"fmt"
)

// ErrItemCount is returned when an attribute has fewer than 2 or more than 3 items
var ErrItemCount = errors.New("daily-do item count out of range")

// ItemCountError carries the offending count and matches ErrItemCount
type ItemCountError struct {
	AttributeID string
	Count       int
}

func (e *ItemCountError) Error() string {
	return fmt.Sprintf("attribute %q has %d items: %v", e.AttributeID, e.Count, ErrItemCount)
}

func (e *ItemCountError) Unwrap() error {
	return ErrItemCount
}
