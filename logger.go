package booksearch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/booksearch/model"
)

// Logger wraps slog.Logger with booksearch-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithMode adds a search mode field to the logger.
func (l *Logger) WithMode(mode model.Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", string(mode)),
	}
}

// WithPage adds a page field to the logger.
func (l *Logger) WithPage(page int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page", page),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, segments int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"segments", segments,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index built",
			"segments", segments,
			"duration", duration,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, mode model.Mode, query string, resultsFound int, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"mode", string(mode),
			"query", query,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"mode", string(mode),
			"query", query,
			"results", resultsFound,
			"cached", cached,
		)
	}
}
