package roadnet

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with roadnet-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSource adds a source node field to the logger.
func (l *Logger) WithSource(node uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", node),
	}
}

// LogOpen logs an index open operation.
func (l *Logger) LogOpen(ctx context.Context, name string, pages, nodes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"index", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"index", name,
			"pages", pages,
			"nodes", nodes,
		)
	}
}

// LogLoadObjects logs an object-file load.
func (l *Logger) LogLoadObjects(ctx context.Context, count int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "object load failed",
			"loaded", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "objects loaded",
			"count", count,
			"duration", duration,
		)
	}
}

// LogQuery logs a group range query.
func (l *Logger) LogQuery(ctx context.Context, sources, results int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "group range query failed",
			"sources", sources,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "group range query completed",
			"sources", sources,
			"results", results,
			"duration", duration,
		)
	}
}

// LogDiameter logs a diameter estimation run.
func (l *Logger) LogDiameter(ctx context.Context, source uint32, diameter float32, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "diameter estimation failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "diameter estimated",
			"source", source,
			"diameter", diameter,
			"duration", duration,
		)
	}
}
