package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/phsym/console-slog"
)

// SlogLogger is the log/slog implementation of Logger. Children created with
// With share the level of their parent.
type SlogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

var _ Logger = (*SlogLogger)(nil)

// NewSlog creates a slog backed logger writing to stdout.
//
// When the ENV environment variable is "development" a human readable console
// handler is used, otherwise records are emitted as JSON with a "ts" time key.
func NewSlog(level Level, addSource bool) Logger {
	return NewSlogWithWriter(os.Stdout, level, addSource, os.Getenv("ENV") == "development")
}

// NewSlogWithWriter creates a slog backed logger writing to w.
// useConsole selects the console-slog handler instead of the JSON handler.
func NewSlogWithWriter(w io.Writer, level Level, addSource bool, useConsole bool) Logger {
	lv := &slog.LevelVar{}
	lv.Set(toSlogLevel(level))

	return &SlogLogger{logger: slog.New(newHandler(w, lv, addSource, useConsole)), level: lv}
}

// NewNop returns a logger that discards every record. Tests and library
// callers that do not care about instrument traffic use it.
func NewNop() Logger {
	return NewSlogWithWriter(io.Discard, FatalLevel, false, false)
}

func newHandler(w io.Writer, lv *slog.LevelVar, addSource, useConsole bool) slog.Handler {
	if useConsole {
		return console.NewHandler(w, &console.HandlerOptions{AddSource: addSource, Level: lv})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     lv,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	})
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.log(slog.LevelDebug, msg, keysAndValues)
}

func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.log(slog.LevelInfo, msg, keysAndValues)
}

func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.log(slog.LevelWarn, msg, keysAndValues)
}

func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.log(slog.LevelError, msg, keysAndValues)
}

func (l *SlogLogger) Fatal(msg string, keysAndValues ...any) {
	l.log(slog.LevelError, msg, keysAndValues)
	os.Exit(1)
}

func (l *SlogLogger) With(keyValues ...any) Logger {
	return &SlogLogger{logger: l.logger.With(keyValues...), level: l.level}
}

func (l *SlogLogger) Level() Level {
	return fromSlogLevel(l.level.Level())
}

func (l *SlogLogger) SetLevel(level Level) {
	l.level.Set(toSlogLevel(level))
}

// log must be called directly by an exported logging method; the fixed call
// depth points the source attribute at the caller of that method.
func (l *SlogLogger) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.logger.Handler().Handle(ctx, r)
}

// slog spaces its levels four apart with Info at zero; FatalLevel maps one
// step above Error so that a FatalLevel logger drops error records too.
func toSlogLevel(level Level) slog.Level {
	return slog.Level(4 * int(level))
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level <= slog.LevelDebug:
		return DebugLevel
	case level <= slog.LevelInfo:
		return InfoLevel
	case level <= slog.LevelWarn:
		return WarnLevel
	case level <= slog.LevelError:
		return ErrorLevel
	default:
		return FatalLevel
	}
}

// ParseLevel resolves a level name: debug, info, warn, error or fatal.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("logger: unknown level %q", s)
	}
}
