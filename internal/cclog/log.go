// Package cclog provides structured logging for the cycgc cycle-collecting
// engine. It wraps Go's log/slog with small conveniences such as per-module
// child loggers and a numeric verbosity scale.
package cclog

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific context.
type Logger struct {
	inner *slog.Logger
	level *slog.LevelVar
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelWarn)
}

// Level is a CLI-friendly verbosity knob, 0 (quietest) through 5
// (loudest), so a --verbosity flag maps straight onto it rather than
// asking operators to spell out slog level constants.
type Level int

const (
	LevelCrit  Level = 0
	LevelError Level = 1
	LevelWarn  Level = 2
	LevelInfo  Level = 3
	LevelDebug Level = 4
	LevelTrace Level = 5
)

// slogLevel converts a Level into the nearest slog.Level; LevelCrit and
// LevelTrace have no direct slog equivalent and map to Error and Debug
// respectively, since slog only defines four levels.
func (v Level) slogLevel() slog.Level {
	switch v {
	case LevelCrit, LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	v := &slog.LevelVar{}
	v.Set(level)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: v,
	})
	return &Logger{inner: slog.New(h), level: v}
}

// SetLevel adjusts the logger's verbosity in place; every child logger
// obtained through Module or With shares the same handler and therefore
// observes the change immediately, since slog.LevelVar is safe to mutate
// concurrently with logging.
func (l *Logger) SetLevel(v Level) {
	if l.level != nil {
		l.level.Set(v.slogLevel())
	}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler. This
// is useful for testing or for writing to a custom destination.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger with an additional "module" attribute. The
// engine uses this to tag logs with the subsystem that emitted them
// (collector, config, weak).
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name), level: l.level}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...), level: l.level}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
