// Package apperror defines the structured fault type every mutating
// operation raises. A fault carries a machine-readable kind plus the
// field-level and general messages the caller renders; it propagates
// unchanged to the HTTP layer, which maps the kind to a status code.
package apperror

import (
	"errors"
	"strings"
)

// Kind classifies a fault.
type Kind int

const (
	// KindUnknown covers wrapped errors that are not *Error values.
	KindUnknown Kind = iota
	// KindAuthentication: no valid session.
	KindAuthentication
	// KindAuthorization: signed in, but the garden role is insufficient.
	KindAuthorization
	// KindNotFound: garden or membership does not exist.
	KindNotFound
	// KindConflict: duplicate garden key, already-accepted invite.
	KindConflict
	// KindValidation: self-targeting misuse, unchanged role, bad input.
	KindValidation
	// KindPersistence: a transaction did not produce the expected result.
	KindPersistence
)

// Error is the structured fault. FieldErrors keys are the JSON field
// names of the offending command fields; Errors holds messages not tied
// to a single field.
type Error struct {
	Kind        Kind
	Msg         string
	FieldErrors map[string][]string
	Errors      []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	for f, msgs := range e.FieldErrors {
		b.WriteString("; ")
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, ", "))
	}
	return b.String()
}

// New returns a fault of the given kind. The message doubles as the
// sole general error when neither WithField nor WithError is applied.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Errors: []string{msg}}
}

// WithField attaches a field-specific message, replacing the general
// message list so callers render the error next to the field only.
func (e *Error) WithField(field, msg string) *Error {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
	e.Errors = nil
	return e
}

// WithError attaches an extra general message.
func (e *Error) WithError(msg string) *Error {
	e.Errors = append(e.Errors, msg)
	return e
}

// Authentication builds a no-valid-session fault.
func Authentication(msg string) *Error { return New(KindAuthentication, msg) }

// Authorization builds an insufficient-role fault.
func Authorization(msg string) *Error { return New(KindAuthorization, msg) }

// NotFound builds a missing-garden/membership fault.
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Conflict builds a duplicate/already-done fault.
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// Validation builds a rejected-command fault.
func Validation(msg string) *Error { return New(KindValidation, msg) }

// Persistence builds a should-not-happen storage fault.
func Persistence(msg string) *Error { return New(KindPersistence, msg) }

// KindOf extracts the kind from any error chain. Non-fault errors
// report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// As unwraps err to a fault, or nil if it is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
