// Package common defines shared constants and sentinel errors used across
// the client and server layers of RealHome. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries a user-visible message. It matches the
// ErrorValidation sentinel under errors.Is so handlers can classify it
// without losing the message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// NewValidationError wraps a user-visible message into a ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// NotFoundError carries a user-visible message for a missing entity. It
// matches the ErrorNotFound sentinel under errors.Is.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func (e *NotFoundError) Is(target error) bool { return target == ErrorNotFound }

// NewNotFoundError wraps a user-visible message into a NotFoundError.
func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}
