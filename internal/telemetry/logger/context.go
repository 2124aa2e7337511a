package logger

import "context"

type contextKey string

const (
	loggerKey contextKey = "aaamesh.logger"
	nodeIDKey contextKey = "aaamesh.node_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithNodeID adds the local node identity to the context.
func WithNodeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, nodeIDKey, id)
}

// NodeIDFromContext extracts the node identity from context.
func NodeIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(nodeIDKey).(string)
	return id
}

// L returns the context logger enriched with the node id found in ctx.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := NodeIDFromContext(ctx); id != "" {
		l = l.With("node", id)
	}
	return l
}
