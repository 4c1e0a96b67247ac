// Package common defines shared constants and errors used across the client
// and server layers of daydash. Callers should match sentinel values with
// errors.Is and typed errors with errors.As.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Auth errors.
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid token")

	// Configuration errors.
	ErrEmptyStorageKey = errors.New("storage base key must not be empty")

	// Ownership error: an upsert collided with a row owned by another user.
	ErrOwnershipConflict = errors.New("row owned by another user")

	// ErrInvalidRow marks a wire row that fails structural validation.
	ErrInvalidRow = errors.New("invalid row")
)

// ValidationError reports required entity fields missing from an Add call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// MappingError reports a failed translation between an entity and its raw
// backend row. A record that fails to map must not be persisted.
type MappingError struct {
	Table string
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping %s.%s: %v", e.Table, e.Field, e.Err)
	}
	return fmt.Sprintf("mapping %s.%s failed", e.Table, e.Field)
}

func (e *MappingError) Unwrap() error { return e.Err }

// BackendError wraps any transport or query failure reported by the backend
// table service.
type BackendError struct {
	Op    string
	Table string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
