package domain

import "fmt"

// ValidationError reports invalid input on a single field. It is raised
// before any store is called.
type ValidationError struct {
	Field   string // JSON pointer-style path, e.g. "choices" or "choices/1/title"
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
