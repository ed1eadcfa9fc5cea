package handlers

import (
	"detour-route-service/internal/api/dto"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

// SessionHandler creates planning sessions and applies edits to them.
type SessionHandler struct {
	Planner *services.Planner
	Store   *services.SessionStore
}

// Create runs a full planning session and stores it for later edits.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	s, err := h.Planner.Plan(r.Context(), services.PlanRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		ArriveBy:    req.ArriveBy,
		ShowAll:     req.ShowAll,
	}, func(pct int) {
		log.Printf("plan progress: path=%s pct=%d", r.URL.Path, pct)
	})
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	h.Store.Put(s)
	writeJSON(w, r, http.StatusCreated, dto.NewSessionResponse(s, h.Planner.Markers(s)))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(s, h.Planner.Markers(s)))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.Store.Get(id); !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	h.Store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// RemoveStop drops one selected stop and returns the recomputed session.
//
// A failed recomputation leaves the session unchanged; the response is still
// 200 and carries the failure in warnings.
func (h *SessionHandler) RemoveStop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}

	err := h.Planner.RemoveStop(r.Context(), s, r.PathValue("label"))
	if err != nil && !errors.Is(err, domain.ErrReoptimizationFailure) {
		writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewSessionResponse(s, h.Planner.Markers(s)))
}
