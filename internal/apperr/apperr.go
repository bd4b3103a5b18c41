// Package apperr holds the error values that workflows surface to HTTP callers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	default:
		return "Internal"
	}
}

// Error carries the kind, the HTTP status and a message safe to show to clients.
// Err is the cause and is never rendered.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches a cause and returns e for chaining.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Code: http.StatusForbidden, Message: msg}
}

// Conflict answers 403: clients of /register treat a taken email as forbidden.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Code: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: http.StatusInternalServerError, Message: "something went wrong", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
