// Package logging defines the structured logger used by the client services.
// SlogLogger wraps log/slog; ZerologLogger wraps zerolog for JSON output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "directory refreshed", "documents", n, "seq", seq)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger writing to w. format is "text" (slog) or "json"
// (zerolog); level is one of debug, info, warn, error.
func New(format, level string, w io.Writer) Logger {
	if strings.EqualFold(format, "json") {
		return NewZerologLogger(w, level)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return NewSlogLogger(slog.New(h))
}

// ComponentKey tags the log lines of one part of the client, e.g. component=directory.
const ComponentKey = "component"

// Component returns a child of l whose lines carry component=name.
func Component(l Logger, name string) Logger {
	return OrDiscard(l).With(ComponentKey, name)
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard()
	}
	return l
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
