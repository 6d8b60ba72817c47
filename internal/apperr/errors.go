// Package apperr defines the error taxonomy shared by all components.
//
// Every store-level failure is caught at a component boundary and re-raised
// as one of the three kinds below; raw driver errors never cross package
// boundaries.
package apperr

import (
	"fmt"
)

// Kind categorizes an error for the caller.
type Kind int

const (
	// KindNotFound - a referenced entity does not exist for an operation
	// that requires it. Recoverable with different input.
	KindNotFound Kind = iota
	// KindUnavailable - the backing store is unreachable, timed out, or
	// failed internally. The caller owns retry policy.
	KindUnavailable
	// KindInvalidArgument - malformed identifiers or non-positive limits,
	// rejected before any store call.
	KindInvalidArgument
)

// Error is a structured error carrying its kind, a message, the underlying
// cause, and operand context for logging.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind, so callers can use errors.Is with the
// sentinel constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithContext attaches an operand to the error for logging.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap wraps an existing error with a kind and message. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// NotFound creates a NotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// NotFoundf creates a NotFound error with formatting.
func NotFoundf(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Unavailable wraps a store-level failure.
func Unavailable(err error, message string) *Error {
	return Wrap(err, KindUnavailable, message)
}

// Unavailablef wraps a store-level failure with formatting.
func Unavailablef(err error, format string, args ...any) *Error {
	return Wrap(err, KindUnavailable, fmt.Sprintf(format, args...))
}

// InvalidArgument creates an InvalidArgument error.
func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

// InvalidArgumentf creates an InvalidArgument error with formatting.
func InvalidArgumentf(format string, args ...any) *Error {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...))
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound        = New(KindNotFound, "not found")
	ErrUnavailable     = New(KindUnavailable, "unavailable")
	ErrInvalidArgument = New(KindInvalidArgument, "invalid argument")
)

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return is(err, KindNotFound)
}

// IsUnavailable reports whether err is an Unavailable error.
func IsUnavailable(err error) bool {
	return is(err, KindUnavailable)
}

// IsInvalidArgument reports whether err is an InvalidArgument error.
func IsInvalidArgument(err error) bool {
	return is(err, KindInvalidArgument)
}

func is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
