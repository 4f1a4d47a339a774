package handler

import (
	"context"
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready. The server is ready once the content
// store answers a lookup.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.blobs.Ping(ctx); err != nil {
		h.logger.WithContext(r.Context()).Warn("readiness check failed", "error", err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Time:   time.Now().UTC().Format(time.RFC3339),
			Error:  err.Error(),
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
