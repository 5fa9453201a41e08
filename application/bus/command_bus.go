package bus

import "context"

// CommandBus dispatches commands to their handlers
type CommandBus struct {
	registry
}

// NewCommandBus creates a new command bus
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{registry: newRegistry("command", middlewares)}
}

// RegisterCommand registers a handler for the command named by sample
func RegisterCommand[C Message, R any](b *CommandBus, sample C, handler Handler[C, R]) error {
	return b.register(sample.MessageName(), erase(handler))
}

// Send dispatches a command to its handler
func Send[C Message, R any](ctx context.Context, b *CommandBus, cmd C) (R, error) {
	return result[R](b.dispatch(ctx, cmd))
}
