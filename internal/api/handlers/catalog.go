package handlers

import (
	"detour-route-service/internal/api/dto"
	"detour-route-service/internal/domain"
	"net/http"
)

// CatalogSource is the read side of the planner the catalog endpoint needs.
type CatalogSource interface {
	Catalog() []domain.CandidateStop
}

// CatalogHandler exposes the read-only stop catalog.
type CatalogHandler struct {
	Source CatalogSource
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	res := dto.ListCatalogResponse{Stops: dto.NewStopResponses(h.Source.Catalog())}
	writeJSON(w, r, http.StatusOK, res)
}
