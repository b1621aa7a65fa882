package log

// Fields provide additional contextual information on a log entry;
// particularly useful for structured messages.
type Fields = map[string]any

// Level values assign a severity to a logged message.
type Level uint

const (
	// Debug messages are broadly interesting to developers, e.g. the
	// thumbprint a block was signed with.
	Debug Level = 0
	// Info messages highlight the normal progress of an operation.
	Info Level = 1
	// Warning messages indicate a recoverable but noteworthy condition,
	// such as a cache miss on a remote store.
	Warning Level = 2
	// Error messages indicate an operation failed, e.g. a validation error.
	Error Level = 3
)

// String returns a textual representation of a level value.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "invalid-level"
	}
}

// Logger is the minimal structured-logging surface used throughout this
// module. Keeping it this small allows embedding applications to plug in
// whatever backend they already use.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)

	// WithFields returns a derived logger that includes the given fields
	// on every subsequent message.
	WithFields(fields Fields) Logger

	// WithField is a shorthand for WithFields with a single pair.
	WithField(key string, value any) Logger

	// SetLevel adjusts the verbosity of the logger; messages below the
	// configured level are discarded.
	SetLevel(lvl Level)
}
