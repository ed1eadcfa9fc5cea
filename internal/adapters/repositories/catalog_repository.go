package repositories

import (
	"context"
	"database/sql"
	"detour-route-service/internal/domain"
	"errors"
	"fmt"
)

// SQL-backed implementation of the CatalogRepository port.
type SQLCatalogRepository struct{ DB *sql.DB }

func NewSQLCatalogRepository(db *sql.DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{DB: db}
}

// Return all catalog stops in catalog order.
func (s *SQLCatalogRepository) ListStops(ctx context.Context) ([]domain.CandidateStop, error) {
	if s.DB == nil {
		return nil, errors.New("sql catalog repository: DB is nil")
	}

	query := `
	SELECT
		label,
		lat,
		lng
	FROM catalog_stops
	ORDER BY position, label;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: query catalog_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.CandidateStop, 0, 64)
	for rows.Next() {
		var label string
		var lat, lng float64
		if err := rows.Scan(&label, &lat, &lng); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, domain.CandidateStop{
			Label:    label,
			Location: domain.GeoPoint{Lat: lat, Lng: lng},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}
