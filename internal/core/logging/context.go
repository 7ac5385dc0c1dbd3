package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	connIDKey    contextKey = "conn_id"
)

// WithRequestID tags the context with the id of the HTTP request being served.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithConnID tags the context with the id of a websocket connection.
func WithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey, id)
}

// RequestID returns the request id, or "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ConnID returns the websocket connection id, or "" if not set.
func ConnID(ctx context.Context) string {
	if id, ok := ctx.Value(connIDKey).(string); ok {
		return id
	}
	return ""
}
