// Package apperror defines the status-tagged error type shared by the
// service and handler layers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Error carries an HTTP status classification alongside the human message.
// Err links to a sentinel (or the underlying cause) for errors.Is checks.
type Error struct {
	Status  int    `json:"statusCode"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Err: ErrInvalidInput}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message, Err: ErrConflict}
}

func TooManyRequests(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: message, Err: ErrInvalidInput}
}

// Internal wraps an unexpected error. The cause is kept for logging and
// dev-mode responses but never shown to production clients.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong!", Err: err}
}

// From normalizes any error into an *Error, defaulting to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return From(err).Status
}
