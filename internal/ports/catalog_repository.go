package ports

import (
	"context"
	"detour-route-service/internal/domain"
)

// Port: a boundary for retrieving the read-only catalog of candidate stops.
type CatalogRepository interface {
	// Retrieve every catalog stop in catalog order.
	ListStops(ctx context.Context) ([]domain.CandidateStop, error)
}
