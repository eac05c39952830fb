// Package apperr holds the typed errors returned by domain services.
// The HTTP layer maps each Kind to a status code in one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: the resource does not exist or is not visible to the caller.
	KindNotFound
	// KindValidation: input or policy check failed before any mutation.
	KindValidation
	// KindConflict: the request clashes with current state.
	KindConflict
	// KindForbidden: the caller's role does not permit the operation.
	KindForbidden
	// KindUnauthorized: missing or invalid credentials.
	KindUnauthorized
	// KindBadRequest: malformed request.
	KindBadRequest
	// KindInsufficientBalance: a redemption asked for more points than available.
	KindInsufficientBalance
	// KindUnavailable: a required collaborator is not configured or reachable.
	KindUnavailable
	// KindInternal: unexpected failure.
	KindInternal
)

// Error is a domain error carrying a Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for the error's kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest, KindInsufficientBalance:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the failing operation name.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches a payload rendered in the error response.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Validation(message string) *Error { return New(KindValidation, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func BadRequest(message string) *Error { return New(KindBadRequest, message) }

func InsufficientBalance(message string) *Error { return New(KindInsufficientBalance, message) }

func Unavailable(message string) *Error { return New(KindUnavailable, message) }

func Internal(message string) *Error { return New(KindInternal, message) }

// GetKind extracts the kind from err or anything it wraps.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
