package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ecdash/internal/services"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /healthz. A degraded status still answers 200 so
// load balancers keep the cached snapshot serving.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())
	render.Status(r, http.StatusOK)
	render.JSON(w, r, status)
}
