package log

// Discard returns a no-op Logger that drops every message. Useful as the
// default for library code and in tests that don't care about log output.
func Discard() Logger {
	return &discardLogger{}
}

type discardLogger struct{}

func (d *discardLogger) Debug(args ...any)                     {}
func (d *discardLogger) Debugf(format string, args ...any)     {}
func (d *discardLogger) Info(args ...any)                      {}
func (d *discardLogger) Infof(format string, args ...any)      {}
func (d *discardLogger) Warning(args ...any)                   {}
func (d *discardLogger) Warningf(format string, args ...any)   {}
func (d *discardLogger) Error(args ...any)                     {}
func (d *discardLogger) Errorf(format string, args ...any)     {}
func (d *discardLogger) WithFields(fields Fields) Logger       { return d }
func (d *discardLogger) WithField(key string, value any) Logger { return d }
func (d *discardLogger) SetLevel(lvl Level)                    {}
