// Package domainerrors defines the coded error type shared by services and
// transport. Services return these for expected conditions (bad input,
// missing resources, failed authorization); plain wrapped errors are reserved
// for genuinely unexpected failures.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and programmatic checks.
type Code string

const (
	// CodeInvalidInput covers validation failures and provider-side
	// creation/verification failures surfaced to the caller.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest covers malformed requests (unparseable body, missing
	// required parameters) before validation even runs.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized means no identity could be established. The message
	// must stay generic; it never reveals whether an account exists.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden means an identity was established but does not own the
	// target resource.
	CodeForbidden Code = "forbidden"
	// CodeNotFound means the referenced resource, profile, or comment is
	// absent.
	CodeNotFound Code = "not_found"
	CodeConflict Code = "conflict"
	CodeInternal Code = "internal"
)

// Error carries a code and a caller-safe message, plus an optional cause that
// never leaves the process boundary.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e Error) Unwrap() error { return e.cause }

// Is matches on code and message so tests can compare against a freshly
// constructed Error regardless of any wrapped cause.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds a coded error with a caller-safe message.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Wrap attaches an internal cause to a coded error. The cause is logged
// server-side and unwrappable via errors.Is/As, but only the message is shown
// to callers.
func Wrap(err error, code Code, message string) Error {
	return Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
