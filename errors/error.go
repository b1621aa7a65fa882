package errors

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Kind categorizes a failure so callers can branch on the nature of the
// problem without string-matching error messages.
type Kind string

// Error kinds produced by the chain protocol. Every failure raised by this
// module's packages carries one of these, set through the matching
// constructor function (KeyNotFound, ChainValidation, etc).
const (
	// KindKeyNotFound is returned when a thumbprint cannot be resolved by a KeyStore.
	KindKeyNotFound Kind = "key_not_found"
	// KindChainNotFound is returned when a subject cannot be resolved by a ChainStore.
	KindChainNotFound Kind = "chain_not_found"
	// KindChainValidation is returned by Chain.Validate for any broken invariant.
	KindChainValidation Kind = "chain_validation"
	// KindSignatureInvalid is returned by Block.Verify on an ES256 mismatch.
	KindSignatureInvalid Kind = "signature_invalid"
	// KindRequest is returned by the remote store variants on a non-success response.
	KindRequest Kind = "request_error"
	// KindValue is returned on a failed precondition (bad argument, duplicate key, ...).
	KindValue Kind = "value_error"
	// KindNotImplemented is returned for protocol paths the source leaves unimplemented.
	KindNotImplemented Kind = "not_implemented"
	// KindNone is used for errors with no assigned domain classification.
	KindNone Kind = ""
)

// Error is an error with an attached stacktrace and, optionally, a `Kind`
// classification and previous cause. It can be used wherever the builtin
// error interface is expected.
type Error struct {
	ts     int64        // UNIX timestamp (in milliseconds)
	kind   Kind         // domain classification, if any
	err    error        // root error value
	prev   error        // previous error in the chain, present only on wrapped errors
	prefix string       // prefix value when presenting error in simple textual form
	frames []StackFrame // error stacktrace
	hints  []string     // additional contextual information
	mu     sync.Mutex
}

// Error returns the underlying error's message.
func (e *Error) Error() string {
	msg := e.err.Error()
	if e.prefix != "" {
		msg = fmt.Sprintf("%s: %s", e.prefix, msg)
	}
	return msg
}

// Unwrap returns the next error in the error chain. If there is no next
// error, Unwrap returns nil.
func (e *Error) Unwrap() error {
	return e.prev
}

// Kind returns the domain classification attached to the error, or
// KindNone when the error was not produced through one of the Kind
// constructors.
func (e *Error) Kind() Kind {
	return e.kind
}

// Cause of the error. Obtained by traversing the entire error stack until
// an error with no cause of its own is found. Errors without a cause are
// expected to be the root error of a failure condition.
func (e *Error) Cause() error {
	if e.prev == nil {
		return e
	}
	var ce hasCause
	if As(e.prev, &ce) {
		return ce.Cause()
	}
	return e.prev
}

// StackTrace returns the frames in the caller's stack.
func (e *Error) StackTrace() []StackFrame {
	return e.frames
}

// PortableTrace returns the frames in the caller's stack, scrubbed of any
// paths specific to the local system so the trace can be shared.
func (e *Error) PortableTrace() []StackFrame {
	fr := make([]StackFrame, len(e.frames))
	copy(fr, e.frames)
	for i := range fr {
		fr[i].File = printFile(fr[i].File)
	}
	return fr
}

// AddHint registers additional contextual information on the error instance.
func (e *Error) AddHint(hint string) {
	e.mu.Lock()
	e.hints = append(e.hints, hint)
	e.mu.Unlock()
}

// Hints provide additional context in the form of meaningful text messages.
func (e *Error) Hints() []string {
	return e.hints
}

// Stamp returns the error's creation UNIX timestamp (in milliseconds).
func (e *Error) Stamp() int64 {
	return e.ts
}

// Is reports whether `target` shares this error's `Kind`, so callers can
// write `errors.Is(err, errors.ChainValidation(""))`-style checks without
// caring about the specific message.
func (e *Error) Is(target error) bool {
	var te *Error
	if !As(target, &te) {
		return false
	}
	if e.kind == KindNone || te.kind == KindNone {
		return false
	}
	return e.kind == te.kind
}

// Format error values using the escape codes defined by fmt.Formatter.
//
//	%s   error message, as a plain string.
//	%v   basic format, includes the stack trace as in runtime/debug.Stack().
//	%+v  extended format, with local system paths scrubbed for portability.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'v':
		str := fmt.Sprintf("%s\n", e.Error())
		frames := e.StackTrace()
		if s.Flag('+') {
			frames = e.PortableTrace()
		}
		for i, frame := range frames {
			str += fmt.Sprintf("‹%d› %+v", i, frame)
		}
		if len(e.hints) > 0 {
			str += "‹hints›\n"
			for _, h := range e.hints {
				str += fmt.Sprintf("\t- %s\n", h)
			}
		}
		_, _ = io.WriteString(s, str)
	}
}

func newError(kind Kind, err error, prefix string) *Error {
	return &Error{
		ts:     time.Now().UnixMilli(),
		kind:   kind,
		err:    err,
		frames: getStack(2),
		prefix: prefix,
	}
}
