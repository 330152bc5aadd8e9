package logger

import "sync/atomic"

var defLogger atomic.Pointer[Logger]

func init() {
	SetLogger(NewSlog(InfoLevel, false))
}

// GetLogger returns the package default logger. Sessions opened without
// instrument.WithLogger log through it.
func GetLogger() Logger {
	return *defLogger.Load()
}

// SetLogger replaces the package default logger. A nil logger is ignored.
// Sessions capture the default logger when their config is built.
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	defLogger.Store(&l)
}

// SetLevel changes the level of the package default logger.
func SetLevel(level Level) { GetLogger().SetLevel(level) }

// With returns a child of the default logger carrying the given key-values.
func With(keyValues ...any) Logger { return GetLogger().With(keyValues...) }

func Debug(msg string, keysAndValues ...any) { GetLogger().Debug(msg, keysAndValues...) }
func Info(msg string, keysAndValues ...any)  { GetLogger().Info(msg, keysAndValues...) }
func Warn(msg string, keysAndValues ...any)  { GetLogger().Warn(msg, keysAndValues...) }
func Error(msg string, keysAndValues ...any) { GetLogger().Error(msg, keysAndValues...) }
func Fatal(msg string, keysAndValues ...any) { GetLogger().Fatal(msg, keysAndValues...) }
