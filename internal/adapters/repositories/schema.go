package repositories

import (
	"database/sql"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the catalog and cache schema. The DDL is valid for SQLite and PostgreSQL.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCatalogQuery := `
	CREATE TABLE IF NOT EXISTS catalog_stops (
		label TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL
    );
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        cache_key TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        created_at BIGINT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_catalog_stops_position
    ON catalog_stops(position);
	`

	statements := []string{
		createCatalogQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// LoadCatalogJSON reads and validates a catalog file of {label, lat, lng} records.
func LoadCatalogJSON(jsonPath string) ([]domain.CandidateStop, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: read %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load catalog: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	stops := make([]domain.CandidateStop, 0, len(data))
	for i, item := range data {
		label := strings.TrimSpace(item.Label)
		if label == "" {
			return nil, fmt.Errorf("load catalog: item at index %d: label cannot be empty", i+1)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("load catalog: duplicate label %q at index %d", label, i+1)
		}
		seen[label] = struct{}{}

		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return nil, fmt.Errorf("load catalog: label %q: coordinates out of range", label)
		}

		stops = append(stops, domain.CandidateStop{
			Label:    label,
			Location: domain.GeoPoint{Lat: item.Lat, Lng: item.Lng},
		})
	}

	return stops, nil
}

// Replace the catalog table with the stops in a JSON file, keeping file order as catalog order.
func SeedFromJSON(conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	stops, err := LoadCatalogJSON(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer tx.Rollback()

	// The file is the whole catalog; labels dropped from it go away.
	if _, err := tx.Exec(`DELETE FROM catalog_stops`); err != nil {
		return fmt.Errorf("seed catalog: clear table: %w", err)
	}

	query := dialect.Rebind(`
	INSERT INTO catalog_stops (
		label,
		lat,
		lng,
		position
	)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (label) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		position = EXCLUDED.position;
	`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stops {
		if _, err := stmt.Exec(s.Label, s.Location.Lat, s.Location.Lng, i); err != nil {
			return fmt.Errorf("seed catalog: insert label=%q: %w", s.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
