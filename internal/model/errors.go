package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field value that violates a task invariant
type ValidationError struct {
	Field   string   // Offending field: "title", "priority", "sort", etc.
	Value   string   // Rejected value as given
	Allowed []string // Accepted values, if the field is an enum
	Message string   // Overrides the generated description
}

func newValidationError(field, value string, allowed []string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Allowed: allowed}
}

// Invalid builds a ValidationError with a free-form message
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q: must be one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
