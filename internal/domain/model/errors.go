package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for ranking engine commands. These allow errors.Is from callers.
var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("duplicate participant name")
	ErrNoActiveEvent = errors.New("no active event")
	ErrNotFound      = errors.New("not found")
)

// FieldError describes a rejected input field. It unwraps to ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// Invalid builds a FieldError for field.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
