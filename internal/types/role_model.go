package types

import "strings"

// RoleModelRecord is a role model row as read from the persistence layer.
// SourceAttributes is the raw string-encoded JSON list of SourceAttribute.
type RoleModelRecord struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	SourceAttributes   string `json:"sourceAttributes"`
	EnhancedAttributes []byte `json:"enhancedAttributes,omitempty"`
	IsActive           bool   `json:"isActive"`
}

// IsEnhanced reports whether the record already carries an enhancement payload
func (r RoleModelRecord) IsEnhanced() bool {
	switch strings.TrimSpace(string(r.EnhancedAttributes)) {
	case "", "null":
		return false
	}
	return true
}

// SourceAttribute is one named trait of a role model with its abstract method
type SourceAttribute struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Method string `json:"method" yaml:"method" validate:"required"`
}

// CandidateFilter selects the role models a batch run considers
type CandidateFilter struct {
	ActiveOnly        bool
	RequireAttributes bool
	ExcludeEnhanced   bool
	// IDs restricts the selection when non-empty
	IDs []string
	// Limit caps the number of records; zero means no cap
	Limit int
}

// DefaultCandidateFilter selects active, attributed, not yet enhanced role models
func DefaultCandidateFilter() CandidateFilter {
	return CandidateFilter{
		ActiveOnly:        true,
		RequireAttributes: true,
		ExcludeEnhanced:   true,
	}
}
