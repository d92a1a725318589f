// Package ctxlog provides a context key for safely passing a slog.Logger
// instance through context.Context, with two retrieval modes callers pick
// between depending on how badly a missing logger would hurt them.
package ctxlog

import (
	"context"
	"fmt"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns the default global logger — the right choice for a
// single run whose output isn't competing with anything else for the
// process's shared log stream.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// MustFromContext extracts the slog.Logger from a context and panics if
// none was attached. Use this where silently falling back to the default
// global logger would produce output that can't be attributed back to the
// caller — a concurrent run of several independent graphs sharing one
// process, for instance, where every graph's log lines need to already
// carry a distinguishing logger before they interleave.
func MustFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		panic(fmt.Errorf("ctxlog: no logger attached to context"))
	}
	return logger
}
