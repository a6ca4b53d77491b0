package errors

import (
	"errors"
	"strings"
)

// Error kinds. Every domain error wraps exactly one of these so the transport
// edge can map it to a status without knowing the specific reason.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials = withKind(ErrUnauthorized, "invalid credentials")
	ErrInvalidToken       = withKind(ErrUnauthorized, "could not validate credentials")
	ErrUserNotFound       = withKind(ErrNotFound, "user not found")
	ErrTaskNotFound       = withKind(ErrNotFound, "task not found")
	ErrCommentNotFound    = withKind(ErrNotFound, "comment not found")
	ErrEmailTaken         = withKind(ErrConflict, "email already registered")
)

type kindError struct {
	kind   error
	reason string
}

func withKind(kind error, reason string) error {
	return &kindError{kind: kind, reason: reason}
}

func (e *kindError) Error() string { return e.reason }

func (e *kindError) Unwrap() error { return e.kind }

// Forbidden returns an ErrForbidden carrying a one-line reason.
func Forbidden(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrForbidden
	}
	return withKind(ErrForbidden, reason)
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when input fails boundary checks.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+field.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
