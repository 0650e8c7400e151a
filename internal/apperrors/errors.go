package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Handlers never format error bodies themselves; they return one
// of these (usually wrapped in *Error) and the error middleware maps it.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("invalid id")
	ErrDuplicateKey = errors.New("duplicate field value entered")
	ErrGeocode      = errors.New("could not geocode")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("service unavailable")
)

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing resource, e.g. NotFound("Bootcamp", id).
func NotFound(resource, id string) error {
	return newf(ErrNotFound, "%s not found with id of %s", resource, id)
}

func InvalidID(id string) error {
	return newf(ErrInvalidID, "Invalid id %s", id)
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Geocode(format string, args ...interface{}) error {
	return newf(ErrGeocode, format, args...)
}

func BadRequest(format string, args ...interface{}) error {
	return newf(ErrBadRequest, format, args...)
}

// Unavailable reports an optional backend that is not configured.
func Unavailable(format string, args ...interface{}) error {
	return newf(ErrUnavailable, format, args...)
}

// Duplicate reports a store-level unique constraint violation.
func Duplicate() error {
	return &Error{Kind: ErrDuplicateKey, Message: "Duplicate field value entered"}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrGeocode),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text sent to clients. Internal errors are not exposed.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "Server Error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
