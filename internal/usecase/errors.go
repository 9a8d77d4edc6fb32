package usecase

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput = crerr.New("invalid input")
	ErrUnauthorized = crerr.New("unauthorized")
	ErrForbidden    = crerr.New("forbidden")
	ErrNotFound     = crerr.New("resource not found")
	ErrConflict     = crerr.New("conflict")
)

// FieldViolation describes one invalid request field.
type FieldViolation struct {
	Field  string
	Reason string
}

// ValidationError aggregates every violated field of a request so
// callers see the complete picture in one round trip. It unwraps to
// ErrInvalidInput.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// violations collects field errors during request validation.
type violations struct {
	items []FieldViolation
}

func (v *violations) add(field, reason string) {
	v.items = append(v.items, FieldViolation{Field: field, Reason: reason})
}

func (v *violations) err() error {
	if len(v.items) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.items}
}
