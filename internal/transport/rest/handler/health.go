package handler

import (
	"context"
	"net/http"
	"time"
)

// BackendProber checks reachability of the upstream backend.
type BackendProber interface {
	Health(ctx context.Context) error
}

// HealthHandler exposes liveness and backend connectivity probes
type HealthHandler struct {
	backend BackendProber
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend BackendProber) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TestConnection handles GET /v1/test-connection. Backend unreachability is
// reported, never fatal: the builder keeps working offline.
func (h *HealthHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.backend.Health(ctx); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"backend": "unreachable", "detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"backend": "ok"})
}
