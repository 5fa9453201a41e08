// Package rest exposes the node tree over HTTP.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nodetree/application/bus"
	"nodetree/application/ports"
	"nodetree/interfaces/http/rest/handlers"
	"nodetree/interfaces/http/rest/middleware"
	pkgerrors "nodetree/pkg/errors"
)

// RequestTracer opens a trace segment per request
type RequestTracer interface {
	Middleware(next http.Handler) http.Handler
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus     *bus.CommandBus
	queryBus       *bus.QueryBus
	health         ports.HealthChecker
	errorHandler   *pkgerrors.ErrorHandler
	tracer         RequestTracer
	limiter        middleware.Limiter
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a new router instance. health and tracer may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *bus.QueryBus,
	health ports.HealthChecker,
	errorHandler *pkgerrors.ErrorHandler,
	tracer RequestTracer,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:     commandBus,
		queryBus:       queryBus,
		health:         health,
		errorHandler:   errorHandler,
		tracer:         tracer,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// WithRateLimiter limits every route except the health checks
func (rt *Router) WithRateLimiter(limiter middleware.Limiter) *Router {
	rt.limiter = limiter
	return rt
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	if rt.tracer != nil {
		router.Use(rt.tracer.Middleware)
	}
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errorHandler.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	health := handlers.NewHealthHandler(rt.health, rt.logger)
	router.Get("/health", rt.handle(health.Health))
	router.Get("/ready", rt.handle(health.Ready))

	nodes := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.logger)
	router.Group(func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, rt.errorHandler))
		}
		r.Use(middleware.RequireJSON(rt.errorHandler))

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", rt.handle(nodes.CreateNode))
			r.Get("/{nodeId}", rt.handle(nodes.GetNode))
			r.Post("/{nodeId}/properties", rt.handle(nodes.CreateNodeProperty))
			r.Get("/{nodeId}/properties", rt.handle(nodes.ListNodeProperties))
		})
		r.Get("/subtree/*", rt.handle(nodes.GetSubtree))
		r.Get("/properties/*", rt.handle(nodes.ListPathProperties))
	})

	return router
}

func (rt *Router) handle(fn handlers.Func) http.HandlerFunc {
	return handlers.Adapt(rt.errorHandler, fn)
}
