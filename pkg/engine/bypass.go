package engine

import "context"

type bypassKey struct{}

// WithBypass marks the context so the interception hook lets the request
// reach the real transport. The engine sets it when re-issuing a
// passed-through request; hosts may set it to exempt a request entirely.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// IsBypass reports whether the bypass marker is set.
func IsBypass(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
