package errors

import (
	stdErrors "errors"
	"fmt"
	"time"
)

// New returns a new root error (i.e., without a cause) instance from the
// given value. If `e` is:
//   - An `*Error` instance created with this package, it is returned as-is.
//   - An `error` value, it is set as the root cause for the new error.
//   - Any other value, it is passed through fmt.Errorf("%v") first.
//
// The stacktrace points at the line of code that called this function.
func New(e interface{}) error {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *Error:
		return e
	case error:
		return newError(KindNone, e, "")
	default:
		return newError(KindNone, fmt.Errorf("%v", e), "")
	}
}

// Errorf returns a new root error (i.e., without a cause) instance whose
// stacktrace points at the line of code that called this function.
func Errorf(format string, args ...interface{}) error {
	return newError(KindNone, fmt.Errorf(format, args...), "")
}

// Wrap a given error into another one, expanding an error cause chain.
// The provided `e` error is registered as the root cause for the returned
// error. If `e` already carries a stacktrace, it is preserved.
func Wrap(e error, prefix string) error {
	if e == nil {
		return nil
	}
	frames := getStack(1)
	var se HasStack
	if As(e, &se) {
		frames = se.StackTrace()
	}
	kind := KindNone
	var ke *Error
	if As(e, &ke) {
		kind = ke.kind
	}
	return &Error{
		ts:     time.Now().UnixMilli(),
		kind:   kind,
		err:    &Error{err: e},
		prev:   e,
		prefix: prefix,
		frames: frames,
	}
}

// Wrapf returns a wrapped version of the provided error using a formatted
// string as prefix.
func Wrapf(e error, format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Unwrap unpacks wrapped errors, delegating to the standard library.
func Unwrap(err error) error {
	return stdErrors.Unwrap(err)
}

// Cause recursively retrieves the topmost error that does not provide a
// cause of its own, assumed to be the original failure condition.
func Cause(err error) error {
	var ce hasCause
	if As(err, &ce) {
		return ce.Cause()
	}
	return nil
}

// As unwraps `err` sequentially looking for an error assignable to
// `target`, which must be a non-nil pointer. Thin wrapper over the
// standard library's errors.As.
func As(err error, target interface{}) bool {
	if target == nil {
		return false
	}
	return stdErrors.As(err, target)
}

// Is reports whether any error in err's chain matches target. Thin
// wrapper over the standard library's errors.Is, which also consults any
// `Is(error) bool` method implemented on the chain (see Error.Is).
func Is(err, target error) bool {
	return stdErrors.Is(err, target)
}

// IsKind reports whether `err` (or any error it wraps) was produced with
// the given Kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !As(err, &e) {
		return false
	}
	return e.kind == k
}

type HasStack interface {
	StackTrace() []StackFrame
}

type hasCause interface {
	Cause() error
}
