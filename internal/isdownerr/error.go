// Package isdownerr is the error types of isdown.
//
// Errors made here match their kind sentinel with errors.Is, and keep their cause
// reachable by errors.Is and errors.As.
package isdownerr

import (
	"fmt"
)

// Error is an error that has a kind and an optional cause.
type Error struct {
	// Kind is the sentinel that tells what failed, like store.ErrWriteHistory.
	Kind error

	// Cause is the underlying error. It may be nil.
	Cause error

	// Msg describes the failure. The cause is appended to it in Error.
	Msg string
}

// New creates a new Error.
func New(kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		Cause: cause,
		Msg:   fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil && e.Msg == "":
		return e.Kind.Error()
	case e.Cause == nil:
		return e.Msg
	case e.Msg == "":
		return e.Cause.Error()
	default:
		return e.Msg + ": " + e.Cause.Error()
	}
}

// Unwrap returns the kind and the cause, for errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
