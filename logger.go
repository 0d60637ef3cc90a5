package lexgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with lexgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithSegment adds a segment name field to the logger.
func (l *Logger) WithSegment(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", name),
	}
}

// WithK adds a k (result count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithFile adds a file name field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogNormsField logs the outcome of writing one norms field.
// width is 0 for constant fields.
func (l *Logger) LogNormsField(ctx context.Context, field string, width int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "norms field write failed",
			"field", field,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "norms field written",
			"field", field,
			"width", width,
		)
	}
}

// LogNormsFinish logs the finalization of a norms file pair.
// Finalization errors mean truncated output and are always logged at error level.
func (l *Logger) LogNormsFinish(ctx context.Context, fields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "norms finalization failed, output is truncated",
			"fields", fields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "norms finalized",
			"fields", fields,
		)
	}
}

// LogSearch logs a search over a set of segments.
func (l *Logger) LogSearch(ctx context.Context, segments, totalHits int, parallel bool, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"segments", segments,
			"parallel", parallel,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"segments", segments,
			"total_hits", totalHits,
			"parallel", parallel,
			"took", took,
		)
	}
}
