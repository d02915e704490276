// Package domainerrors defines the typed error channel between services and
// transports. Services return *Error values carrying a Code; transports map the
// Code to a status once, in one place.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error independently of any transport.
type Code string

const (
	CodeValidation  Code = "validation_error"
	CodeBadRequest  Code = "bad_request"
	CodeUnavailable Code = "unavailable"
	CodeInternal    Code = "internal_error"
)

// Error is a coded domain error. Cause is kept for logging and for transports
// that choose to surface the underlying detail.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// As extracts the outermost domain error from err, if any.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Detail returns the most specific human-readable description of err: the
// root cause message when one is wrapped, the domain message otherwise.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	de, ok := As(err)
	if !ok {
		return err.Error()
	}
	if de.Cause != nil {
		return de.Cause.Error()
	}
	return de.Message
}

// ToHTTPStatus maps a code to its HTTP status. Not-found is a routing
// outcome, never a domain code.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnavailable, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
