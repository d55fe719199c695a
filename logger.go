package gridkit

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/gridkit/state"
)

// Logger wraps slog.Logger with grid-specific context.
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
	return NewLogger(slog.DiscardHandler)
}

// WithGridID adds the grid id to every record.
func (l *Logger) WithGridID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("grid_id", id),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", name),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, name string, rows int, bytes int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"dataset", name,
			"rows", rows,
			"bytes", bytes,
			"duration", d,
		)
	}
}

// LogRecompute logs one pipeline stage.
func (l *Logger) LogRecompute(ctx context.Context, stage state.Stage, in, out int, d time.Duration) {
	l.DebugContext(ctx, "stage completed",
		"stage", stage.String(),
		"in", in,
		"out", out,
		"duration", d,
	)
}

// LogViewSaved logs a view save.
func (l *Logger) LogViewSaved(ctx context.Context, view string, version int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "view save failed",
			"view", view,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "view saved",
			"view", view,
			"version", version,
		)
	}
}
