// Package logging defines the structured-logging interface the rest of the
// application depends on, decoupled from any one backend.
package logging

import "context"

// Logger is a context-aware, leveled, structured logger. The variadic args
// are key-value pairs:
//
//	log.Info(ctx, "upload complete", "path", path, "bytes", n)
type Logger interface {
	// Debug logs fine-grained diagnostics, usually disabled in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given key-value pairs.
	With(args ...any) Logger
}
