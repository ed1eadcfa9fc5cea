package handlers

import (
	"context"
	"net/http"
	"time"
)

// Readiness reports whether a dependency can serve requests.
type Readiness interface {
	Ready(ctx context.Context) error
}

// HealthHandler provides a liveness check and, when a routing dependency is
// configured, a readiness check against it.
type HealthHandler struct {
	Routing Readiness
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Routing == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Routing.Ready(ctx); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
