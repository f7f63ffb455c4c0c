package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRoleModelNotFound is returned when an update matches no row
var ErrRoleModelNotFound = errors.New("role model not found")

// UnsupportedURLError is returned by Open for an unknown database URL scheme
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	if e.URL == "" {
		return "database URL is empty"
	}
	scheme, _, found := strings.Cut(e.URL, ":")
	if !found {
		return "database URL has no scheme: want postgres://, postgresql://, sqlite:// or file:"
	}
	return fmt.Sprintf("unsupported database scheme %q: want postgres://, postgresql://, sqlite:// or file:", scheme)
}
