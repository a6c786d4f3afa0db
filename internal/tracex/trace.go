// Package tracex carries a per-request correlation id through a context.
// The id is minted by the HTTP middleware and picked up by the logger, so
// every record produced while serving a request can be tied back to it.
package tracex

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// HeaderName is the response header the trace id is echoed in.
const HeaderName = "X-Trace-ID"

// New returns a fresh random trace id.
func New() string {
	return uuid.NewString()
}

// WithTraceID returns a child context carrying the given trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromContext returns the trace id stored in ctx, or "" if none is set.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
