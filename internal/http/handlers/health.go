package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/imtiaz478/Sellora-full/internal/http/respond"
)

// HealthHandler serves the root banner and an uptime probe.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// Routes wires the handler into the router.
func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/", h.handleBanner)
	r.Get("/health", h.handleHealth)
}

func (h *HealthHandler) handleBanner(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusOK, "Sellora Backend Running")
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
