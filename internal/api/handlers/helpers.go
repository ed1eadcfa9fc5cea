package handlers

import (
	"detour-route-service/internal/domain"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writePlanError maps a planning error kind to its HTTP status.
// Errors without a known kind are logged and reported as 500.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrStopNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInfeasibleDeadline):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrBaseRouteFailure), errors.Is(err, domain.ErrReoptimizationFailure):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
