// Package observability provides structured logging and metrics collection.
//
// Logger wraps log/slog with engine-specific context fields. Metrics counts
// snapshot builds, path searches, and solver calls. The reasoning kernel
// itself stays silent; logging happens in the adapters and the CLI.
package observability

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog with a persistent engine context.
type Logger struct {
	inner  *slog.Logger
	engine string
}

// NewLogger creates a structured logger for a named engine instance.
// Output defaults to os.Stderr if w is nil.
func NewLogger(engineName string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return &Logger{
		inner:  slog.New(handler),
		engine: engineName,
	}
}

// NewLoggerWithHandler creates a logger with a custom slog handler.
func NewLoggerWithHandler(engineName string, h slog.Handler) *Logger {
	return &Logger{
		inner:  slog.New(h),
		engine: engineName,
	}
}

// With returns a new Logger with an additional persistent field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		inner:  l.inner.With(slog.Any(key, value)),
		engine: l.engine,
	}
}

// attrs prepends the engine name to the arguments.
func (l *Logger) attrs(args []any) []any {
	return append([]any{slog.String("engine", l.engine)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, l.attrs(args)...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, l.attrs(args)...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, l.attrs(args)...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, l.attrs(args)...)
}

// SnapshotEvent logs a snapshot rebuild.
func (l *Logger) SnapshotEvent(completed, goals int, args ...any) {
	allArgs := append([]any{
		slog.String("engine", l.engine),
		slog.Int("completed_actions", completed),
		slog.Int("goals", goals),
	}, args...)
	l.inner.Info("snapshot", allArgs...)
}

// SolverEvent logs a SAT reasoner call.
func (l *Logger) SolverEvent(query, status string, args ...any) {
	allArgs := append([]any{
		slog.String("engine", l.engine),
		slog.String("query", query),
		slog.String("status", status),
	}, args...)
	l.inner.Info("solver", allArgs...)
}

// EngineName returns the engine name associated with this logger.
func (l *Logger) EngineName() string {
	return l.engine
}
