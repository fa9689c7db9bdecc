// Package errs carries the outcome model shared by every pipeline
// operation: an error with a stable code, a human description and a
// kind that the outer boundary maps to a transport status.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNone Kind = iota
	KindFailure
	KindValidation
	KindNotFound
)

type Error struct {
	Code        string
	Description string
	Kind        Kind

	cause error
}

func Failure(code, description string) *Error {
	return &Error{Code: code, Description: description, Kind: KindFailure}
}

func Validation(code, description string) *Error {
	return &Error{Code: code, Description: description, Kind: KindValidation}
}

func NotFound(code, description string) *Error {
	return &Error{Code: code, Description: description, Kind: KindNotFound}
}

// WithCause attaches the transport-level error that produced e, keeping
// it reachable through errors.Is/As without leaking it into the code or
// description.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on code and kind, so catalogue entries built per call (ids
// interpolated into the description) still compare equal to their
// prototypes via errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// KindOf reports the kind of the first *Error in err's chain,
// KindFailure when the chain carries none. A ValidationError is matched
// before its children, so an aggregate of Failure-kind deletions still
// reads as Validation.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindFailure
}
