// Package logging defines the structured-logging interface used across
// moodkeeper and its slog-backed implementation.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Warn(ctx, "remote write failed", "path", path, "error", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is used for failures the caller recovers from, such as a
	// swallowed remote write or an aborted compression.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

var _ Logger = (*SlogLogger)(nil)
