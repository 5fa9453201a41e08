// Package bus dispatches commands and queries to their handlers through a
// shared middleware pipeline.
package bus

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "nodetree/pkg/errors"
)

// Message is implemented by every command and query
type Message interface {
	// MessageName identifies the message type, e.g. "CreateNode"
	MessageName() string

	// Validate checks the message schema and reports every violation
	Validate() error
}

// Handler handles a specific message type
type Handler[M Message, R any] interface {
	Handle(ctx context.Context, msg M) (R, error)
}

// HandlerFunc is an adapter to allow functions to be used as handlers
type HandlerFunc[M Message, R any] func(ctx context.Context, msg M) (R, error)

// Handle implements Handler
func (f HandlerFunc[M, R]) Handle(ctx context.Context, msg M) (R, error) {
	return f(ctx, msg)
}

// HandleFunc is the type-erased form every middleware works on
type HandleFunc func(ctx context.Context, msg Message) (any, error)

// Middleware decorates a HandleFunc
type Middleware func(next HandleFunc) HandleFunc

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a pipeline; the first middleware is the outermost
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Execute wraps handler with every middleware of the pipeline
func (p *Pipeline) Execute(handler HandleFunc) HandleFunc {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

type registry struct {
	kind     string
	pipeline *Pipeline
	handlers map[string]HandleFunc
	mu       sync.RWMutex
}

func newRegistry(kind string, middlewares []Middleware) registry {
	return registry{
		kind:     kind,
		pipeline: NewPipeline(middlewares...),
		handlers: make(map[string]HandleFunc),
	}
}

func (r *registry) register(name string, handler HandleFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler already registered for %s %s", r.kind, name)
	}
	r.handlers[name] = r.pipeline.Execute(handler)
	return nil
}

func (r *registry) dispatch(ctx context.Context, msg Message) (any, error) {
	r.mu.RLock()
	handler, exists := r.handlers[msg.MessageName()]
	r.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for %s %s", r.kind, msg.MessageName()), nil)
	}
	return handler(ctx, msg)
}

func erase[M Message, R any](handler Handler[M, R]) HandleFunc {
	return func(ctx context.Context, msg Message) (any, error) {
		typed, ok := msg.(M)
		if !ok {
			return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected message type %T", msg), nil)
		}
		return handler.Handle(ctx, typed)
	}
}

func result[R any](res any, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, pkgerrors.NewInternalError(fmt.Sprintf("unexpected result type %T", res), nil)
	}
	return typed, nil
}
