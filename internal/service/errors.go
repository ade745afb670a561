package service

import (
	"errors"
	"fmt"
)

// Typed errors let handlers map failures onto the response taxonomy
// (not-found, conflict, validation) without string matching. Anything not in
// this taxonomy is treated as an internal error at the boundary.

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not allowed")
)

// ConflictError reports a unique-key collision, naming the conflicting
// field so the client can render a specific message.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Field, e.Value)
}

// ValidationError reports per-field problems detected in the service layer
// (business rules that tag-based validation cannot express, e.g. category
// cycles).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func newValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
