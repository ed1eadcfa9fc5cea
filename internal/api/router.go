package api

import (
	"detour-route-service/internal/api/handlers"
	"detour-route-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner, store *services.SessionStore, routing handlers.Readiness) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Routing: routing}
	catalog := &handlers.CatalogHandler{Source: planner}
	sessions := &handlers.SessionHandler{Planner: planner, Store: store}

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /catalog", catalog.List)
	mux.HandleFunc("POST /sessions", sessions.Create)
	mux.HandleFunc("GET /sessions/{id}", sessions.Get)
	mux.HandleFunc("DELETE /sessions/{id}", sessions.Delete)
	mux.HandleFunc("DELETE /sessions/{id}/stops/{label}", sessions.RemoveStop)

	return requestIDMiddleware(loggingMiddleware(mux))
}
