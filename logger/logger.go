// Package logger provides the logging facade used by every go-scpi package.
//
// Instrument sessions, transports and the command-line tool log through the
// Logger interface, so a test harness can route instrument traffic into its
// own logging framework by installing a custom implementation with
// instrument.WithLogger.
//
// Levels, from most to least verbose:
//
//   - DebugLevel: per-command traffic and discovery details.
//   - InfoLevel: session open/close and configuration summaries.
//   - WarnLevel: recoverable anomalies.
//   - ErrorLevel: failed teardown steps and transport failures.
//   - FatalLevel: unrecoverable errors that terminate the program.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
	// FatalLevel loggers still exit on Fatal, but drop every other record.
	FatalLevel
)

// Logger is a leveled, structured logger. Arguments after the message are
// alternating keys and values.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// Fatal logs at error severity and calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With returns a child logger carrying keyValues on every record.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level.
	Level() Level
	SetLevel(level Level)
}
