package bus

import "context"

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	registry
}

// NewQueryBus creates a new query bus
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{registry: newRegistry("query", middlewares)}
}

// RegisterQuery registers a handler for the query named by sample
func RegisterQuery[Q Message, R any](b *QueryBus, sample Q, handler Handler[Q, R]) error {
	return b.register(sample.MessageName(), erase(handler))
}

// Ask dispatches a query to its handler and returns the result
func Ask[Q Message, R any](ctx context.Context, b *QueryBus, query Q) (R, error) {
	return result[R](b.dispatch(ctx, query))
}
