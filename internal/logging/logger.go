// Package logging is the structured logger handed to the store, the insight
// service, the export scheduler and the CLI. Diagnostics go to stderr so they
// never mix with REPL output on stdout.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Warn(ctx, "slot unusable, using defaults", "slot", "rli_cabins", "error", err)
//
// Components tag themselves once with With("component", name).
type Logger interface {
	// Debug is off at the default "info" level.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks a degraded but recoverable state, such as a load fallback
	// or a change kept in memory only.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
