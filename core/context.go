package core

import "context"

// suppressHeaderKey is the context key controlling header output.
type suppressHeaderKey struct{}

// WithSuppressHeader marks a context so analysis headers are not printed.
// The MCP server uses this to keep stdout clean for the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey{}, true)
}

// shouldSuppressHeader reports whether header output is suppressed.
func shouldSuppressHeader(ctx context.Context) bool {
	v, _ := ctx.Value(suppressHeaderKey{}).(bool)
	return v
}
