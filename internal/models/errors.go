package models

import (
	"errors"
	"fmt"
)

// Workflow-level error taxonomy. Handlers translate these into HTTP statuses;
// anything else is a backend failure whose message passes through verbatim.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotRegistered    = errors.New("not registered for this event")
	ErrAlreadyPaid      = errors.New("payment for this event is already completed")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError marks a client-side validation failure. It blocks the
// submission before any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
