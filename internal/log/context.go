package log

import (
	"context"

	"github.com/anchore/go-logger"
)

type ctxKey struct{}

// WithLogger attaches the logger to the context, e.g. one scoped to the command being run.
func WithLogger(ctx context.Context, lgr logger.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lgr)
}

// FromContext returns the logger attached to the context, or the global logger when there is none.
func FromContext(ctx context.Context) logger.Logger {
	if ctx == nil {
		return Get()
	}
	if lgr, ok := ctx.Value(ctxKey{}).(logger.Logger); ok && lgr != nil {
		return lgr
	}
	return Get()
}

// WithNested derives a logger carrying the given fields from the one in the context, returning it along with a
// context that carries it.
func WithNested(ctx context.Context, fields ...any) (context.Context, logger.Logger) {
	lgr := FromContext(ctx).Nested(fields...)
	return WithLogger(ctx, lgr), lgr
}
