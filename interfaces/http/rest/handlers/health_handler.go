package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"nodetree/application/ports"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checker ports.HealthChecker
	logger  *zap.Logger
}

// NewHealthHandler creates a health handler. A nil checker is always ready.
func NewHealthHandler(checker ports.HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

type status struct {
	Status string `json:"status"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) error {
	return respond(w, h.logger, http.StatusOK, status{Status: "healthy"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) error {
	if h.checker != nil {
		if err := h.checker.Ping(r.Context()); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			return respond(w, h.logger, http.StatusServiceUnavailable, status{Status: "unavailable"})
		}
	}
	return respond(w, h.logger, http.StatusOK, status{Status: "ready"})
}
