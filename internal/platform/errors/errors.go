// Package errors is the coded error type shared by every layer.
// Import it as perr
package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"
)

// ErrNotFound is the sentinel repos wrap for a missing key
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a message with a machine code and an optional cause.
// field names the offending input; op tags the operation that failed
type Error struct {
	code  ErrorCode
	msg   string
	cause error
	field string
	op    string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.msg
	}
	var b strings.Builder
	b.WriteString(e.msg)
	b.WriteString(": ")
	b.WriteString(e.cause.Error())
	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.cause }

// Code is the machine code
func (e *Error) Code() ErrorCode { return e.code }

// Field is the offending input, empty when none
func (e *Error) Field() string { return e.field }

// Op is the failing operation, empty when none
func (e *Error) Op() string { return e.op }

// Wire is the error block of the HTTP envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders any error for the wire; foreign errors become Unknown
func WireFrom(err error) Wire {
	switch e, ok := As(err); {
	case err == nil:
		return Wire{}
	case ok:
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	default:
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
}

// New returns a coded error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap codes cause under msg
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with formatting
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

// derive copies the outermost coded error and applies set to the copy.
// Foreign errors are returned untouched
func derive(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	set(&cp)
	return &cp
}

// WithField names the offending input on a copy of err
func WithField(err error, field string) error {
	return derive(err, func(e *Error) { e.field = field })
}

// WithOp tags a copy of err with the failing operation
func WithOp(err error, op string) error {
	return derive(err, func(e *Error) { e.op = op })
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf is the code of err; foreign errors are Unknown
func CodeOf(err error) ErrorCode {
	e, ok := As(err)
	if !ok {
		return ErrorCodeUnknown
	}
	return e.code
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the response status err maps to
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// IsCanceled reports whether err stems from an ended context
func IsCanceled(err error) bool {
	if IsCode(err, ErrorCodeCanceled) {
		return true
	}
	return stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded)
}
