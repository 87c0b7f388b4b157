package middleware

import (
	"context"

	"lumina-crm/backend/internal/authz"
)

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// WithCaller returns a context carrying the request's caller snapshot.
// Handlers read it via CallerFrom.
func WithCaller(ctx context.Context, c authz.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFrom returns the caller snapshot from context and true if set;
// otherwise a zero Caller and false.
func CallerFrom(ctx context.Context) (authz.Caller, bool) {
	c, ok := ctx.Value(callerKey).(authz.Caller)
	return c, ok
}
