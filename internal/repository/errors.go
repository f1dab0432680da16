// Package repository defines the data access layer and the error values
// shared across repositories.  These sentinel values allow handlers to
// distinguish failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or delete matched no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrNoFieldsToUpdate is returned by Resolve when a sparse update names no
// updatable column.  It is raised before any statement is sent.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// FieldError reports a value that cannot be stored in its column.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
