package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so handlers can map them to a response without
// inspecting error strings.
type Kind string

const (
	// KindValidation covers malformed or missing input; the caller should fix
	// the request and retry.
	KindValidation Kind = "validation_error"
	// KindNotConfigured means no connection settings exist yet; the caller is
	// pointed at the configuration step.
	KindNotConfigured Kind = "not_configured"
	// KindCatalogUnavailable means the issue tracker is unreachable or rejects
	// the credentials. Only catalog-dependent operations fail on it.
	KindCatalogUnavailable Kind = "catalog_unavailable"
	// KindStorage means the backing store cannot be opened or written.
	KindStorage Kind = "storage_unavailable"
)

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for a validation failure.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or empty when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
