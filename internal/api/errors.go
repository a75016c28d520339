package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure so callers can branch without parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuthRequired Kind = "auth_required"
	KindNetwork      Kind = "network"
	KindBackend      Kind = "backend"
	KindNotFound     Kind = "not_found"
)

const (
	msgAuthRequired  = "Authentication required"
	msgNetwork       = "Network error"
	msgInvalidAmount = "Invalid payment amount"
)

// Error is the only error type returned by this package.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrAuthRequired is returned without issuing a request when no token is available.
var ErrAuthRequired = &Error{Kind: KindAuthRequired, Message: msgAuthRequired}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the user-facing message carried by err, or fallback when
// err carries none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
