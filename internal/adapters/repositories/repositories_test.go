package repositories

import (
	"context"
	"database/sql"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(conn))
	return conn
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedAndListKeepsCatalogOrder(t *testing.T) {
	conn := openTestDB(t)
	path := writeCatalog(t, `[
		{"label": "Zeta", "lat": 39.75, "lng": -105.0},
		{"label": "Alpha", "lat": 39.76, "lng": -104.99},
		{"label": " Mid ", "lat": 39.77, "lng": -104.98}
	]`)

	require.NoError(t, SeedFromJSON(conn, db.SQLite, path))
	// Seeding the same file again changes nothing.
	require.NoError(t, SeedFromJSON(conn, db.SQLite, path))

	stops, err := NewSQLCatalogRepository(conn).ListStops(context.Background())
	require.NoError(t, err)

	require.Len(t, stops, 3)
	assert.Equal(t, "Zeta", stops[0].Label)
	assert.Equal(t, "Alpha", stops[1].Label)
	assert.Equal(t, "Mid", stops[2].Label)
	assert.Equal(t, domain.GeoPoint{Lat: 39.76, Lng: -104.99}, stops[1].Location)
}

func TestSeedDropsStopsRemovedFromFile(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSQLCatalogRepository(conn)

	first := writeCatalog(t, `[
		{"label": "Old", "lat": 39.75, "lng": -105.0},
		{"label": "Kept", "lat": 39.76, "lng": -104.99}
	]`)
	require.NoError(t, SeedFromJSON(conn, db.SQLite, first))

	second := writeCatalog(t, `[
		{"label": "Kept", "lat": 39.76, "lng": -104.99},
		{"label": "New", "lat": 39.77, "lng": -104.98}
	]`)
	require.NoError(t, SeedFromJSON(conn, db.SQLite, second))

	stops, err := repo.ListStops(context.Background())
	require.NoError(t, err)

	got := make([]string, 0, len(stops))
	for _, s := range stops {
		got = append(got, s.Label)
	}
	assert.Equal(t, []string{"Kept", "New"}, got)
}

func TestLoadCatalogJSONValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty label", `[{"label": " ", "lat": 1, "lng": 1}]`},
		{"duplicate", `[{"label": "a", "lat": 1, "lng": 1}, {"label": "a", "lat": 2, "lng": 2}]`},
		{"latitude", `[{"label": "a", "lat": 91, "lng": 1}]`},
		{"longitude", `[{"label": "a", "lat": 1, "lng": -181}]`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogJSON(writeCatalog(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := LoadCatalogJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestShippedCatalogLoads(t *testing.T) {
	stops, err := LoadCatalogJSON(filepath.Join("..", "..", "..", "data", "seeds", "catalog.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, stops)
}

func TestListStopsEmpty(t *testing.T) {
	stops, err := NewSQLCatalogRepository(openTestDB(t)).ListStops(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stops)
}
