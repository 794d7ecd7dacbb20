package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a single bad input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrForbidden is returned when the caller may not act on a resource.
var ErrForbidden = errors.New("forbidden")
