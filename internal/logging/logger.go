// Package logging provides structured logging configuration using log/slog.
//
// Loggers obtained through FromContext carry the chi request ID (for HTTP
// requests) and the import ID (for every import action), so all entries of a
// single import can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const ctxKeyImportID contextKey = "import_id"

// Setup configures the global slog logger based on level and format,
// writing to stderr.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
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

// ContextWithImportID tags ctx with the id of the running import.
func ContextWithImportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyImportID, id)
}

// ImportIDFromContext returns the import id stored in ctx, if any.
func ImportIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyImportID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a logger enriched with request and import context.
//
// Usage:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("import completed", "table", t.Name)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	// Chi's RequestID middleware stores the ID in context
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if importID := ImportIDFromContext(ctx); importID != "" {
		logger = logger.With("import_id", importID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
