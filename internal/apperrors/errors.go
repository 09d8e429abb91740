// Package apperrors defines the failure kinds a mutation can end in. Every kind carries a message
// that is safe to show to the person who submitted the form.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindConflict    Kind = "CONFLICT"
	KindReference   Kind = "REFERENCE"
	KindNotFound    Kind = "NOT_FOUND"
	KindPersistence Kind = "PERSISTENCE"
)

// Error is an application-level error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a missing, malformed or out-of-range field.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict reports a duplicate value or a delete blocked by dependent rows.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Reference reports a reference to a row that does not exist.
func Reference(message string) error {
	return &Error{Kind: KindReference, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Persistence wraps a storage failure. The cause is kept for logging only.
func Persistence(message string, err error) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindPersistence for errors this package did not produce.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Message returns the user-facing text of err. Unknown errors yield fallback so that internal
// details never reach a rendered page.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// UserFacing reports whether err is a rejection the caller can act on, as opposed to a storage failure.
func UserFacing(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindConflict, KindReference, KindNotFound:
		return true
	default:
		return false
	}
}
