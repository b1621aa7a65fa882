package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZeroOptions adjusts the behavior of a Logger instance backed by the
// zerolog library.
type ZeroOptions struct {
	// PrettyPrint renders messages as human-readable text instead of
	// structured JSON.
	PrettyPrint bool

	// Sink is the destination for produced messages. Defaults to os.Stderr.
	Sink io.Writer
}

// WithZero returns a Logger backed by the zerolog library.
func WithZero(options ZeroOptions) Logger {
	if options.Sink == nil {
		options.Sink = os.Stderr
	}
	handler := zerolog.New(options.Sink).With().Timestamp().Logger()
	if options.PrettyPrint {
		handler = handler.Output(zerolog.ConsoleWriter{Out: options.Sink})
	}
	return &zeroLogger{log: handler, lvl: Debug}
}

type zeroLogger struct {
	log zerolog.Logger
	lvl Level
}

func (zl *zeroLogger) SetLevel(lvl Level) {
	zl.lvl = lvl
}

func (zl *zeroLogger) WithFields(fields Fields) Logger {
	return &zeroLogger{log: zl.log.With().Fields(map[string]any(fields)).Logger(), lvl: zl.lvl}
}

func (zl *zeroLogger) WithField(key string, value any) Logger {
	return zl.WithFields(Fields{key: value})
}

func (zl *zeroLogger) print(lvl Level, msg string) {
	if lvl < zl.lvl {
		return
	}
	var ev *zerolog.Event
	switch lvl {
	case Debug:
		ev = zl.log.Debug()
	case Info:
		ev = zl.log.Info()
	case Warning:
		ev = zl.log.Warn()
	case Error:
		ev = zl.log.Error()
	default:
		ev = zl.log.Info()
	}
	ev.Msg(msg)
}

func (zl *zeroLogger) Debug(args ...any)   { zl.print(Debug, fmt.Sprint(args...)) }
func (zl *zeroLogger) Info(args ...any)    { zl.print(Info, fmt.Sprint(args...)) }
func (zl *zeroLogger) Warning(args ...any) { zl.print(Warning, fmt.Sprint(args...)) }
func (zl *zeroLogger) Error(args ...any)   { zl.print(Error, fmt.Sprint(args...)) }

func (zl *zeroLogger) Debugf(format string, args ...any)   { zl.print(Debug, fmt.Sprintf(format, args...)) }
func (zl *zeroLogger) Infof(format string, args ...any)    { zl.print(Info, fmt.Sprintf(format, args...)) }
func (zl *zeroLogger) Warningf(format string, args ...any) { zl.print(Warning, fmt.Sprintf(format, args...)) }
func (zl *zeroLogger) Errorf(format string, args ...any)   { zl.print(Error, fmt.Sprintf(format, args...)) }
