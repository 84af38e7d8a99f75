package types

import "context"

type ContextKey string

const (
	ContextKeyRequestID     ContextKey = "request_id"
	ContextKeyRequestSource ContextKey = "request_source"
)

// Request sources recorded under ContextKeyRequestSource.
const (
	SourceCLI     = "cli"
	SourceGateway = "gateway"
)

// WithRequestID returns a copy of ctx carrying id under ContextKeyRequestID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// RequestIDFrom returns the request id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	return stringFrom(ctx, ContextKeyRequestID)
}

// WithRequestSource records which surface (cli, gateway) started the work.
func WithRequestSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestSource, source)
}

// RequestSourceFrom returns the source stored in ctx, or "".
func RequestSourceFrom(ctx context.Context) string {
	return stringFrom(ctx, ContextKeyRequestSource)
}

func stringFrom(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
