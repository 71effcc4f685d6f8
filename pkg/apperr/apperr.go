// Package apperr classifies service errors so handlers can map them to HTTP
// status codes in one place.
package apperr

import (
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a classified error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) error   { return newErr(KindValidation, msg) }
func Unauthorized(msg string) error { return newErr(KindUnauthorized, msg) }
func Forbidden(msg string) error    { return newErr(KindForbidden, msg) }
func NotFound(msg string) error     { return newErr(KindNotFound, msg) }
func Conflict(msg string) error     { return newErr(KindConflict, msg) }

// Internal wraps an unexpected failure. The message is logged, never shown.
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Message: msg, cause: eris.Wrap(err, msg)}
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps err to an HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to return to clients.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "An unexpected error occurred on the server"
}

// FromDB classifies a repository error: record-not-found becomes NotFound
// with the given message, anything else an Internal error.
func FromDB(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Internal(err, "database operation failed")
}
