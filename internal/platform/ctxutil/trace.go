package ctxutil

import "context"

type requestTraceKey struct{}

// RequestTrace carries the correlation ids attached to an incoming request.
type RequestTrace struct {
	TraceID   string
	RequestID string
}

func WithRequestTrace(ctx context.Context, rt RequestTrace) context.Context {
	return context.WithValue(ctx, requestTraceKey{}, rt)
}

func RequestTraceFrom(ctx context.Context) (RequestTrace, bool) {
	rt, ok := ctx.Value(requestTraceKey{}).(RequestTrace)
	return rt, ok
}
