package main

import (
	"context"
	"database/sql"
	"detour-route-service/internal/adapters/cache"
	"detour-route-service/internal/adapters/repositories"
	"detour-route-service/internal/adapters/routing"
	"detour-route-service/internal/api"
	"detour-route-service/internal/config"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/db"
	"detour-route-service/internal/ports"
	"detour-route-service/internal/services"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL or Redis caches, OSRM, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, dialect, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed the stop catalog on startup for local runs.
	if err := initAndSeed(conn, dialect, cfg.CatalogSeedPath); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	catalog, err := loadCatalog(ctx, repositories.NewSQLCatalogRepository(conn))
	if err != nil {
		log.Fatal(err)
	}

	routeCache, closeCache, err := newRouteCache(ctx, cfg, conn, dialect)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	// Free-text addresses need ORS; "lat,lng" endpoints work without it.
	var geocoder ports.Geocoder
	if cfg.ORSAPIKey != "" {
		g, err := routing.NewORSGeocoder(cfg.ORSAPIKey, newGeocodeCache(conn, dialect))
		if err != nil {
			log.Fatal(err)
		}
		geocoder = g
	} else {
		log.Println("ORS_API_KEY not set, only lat,lng endpoints can be routed")
	}

	client, err := routing.NewOSRMClient(cfg.OSRMBaseURL, geocoder, routeCache)
	if err != nil {
		log.Fatal(err)
	}

	planner := services.NewPlanner(client, catalog, services.PlannerOptions{
		CeilingMinutes: cfg.DetourCeilingMinutes,
		Concurrency:    cfg.DetourConcurrency,
		Location:       cfg.Location,
	})
	router := api.NewRouter(planner, services.NewSessionStore(), client)

	log.Printf("Server listening addr=:%s db=%s catalog=%d", cfg.Port, dialect, len(catalog))
	// Timeouts are tuned for cold-cache planning (one routing query per candidate).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(cfg config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.Postgres, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}

func initAndSeed(conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func loadCatalog(ctx context.Context, repo ports.CatalogRepository) ([]domain.CandidateStop, error) {
	stops, err := repo.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(stops) == 0 {
		log.Println("catalog is empty, sessions will never add stops")
	}
	return stops, nil
}

func newGeocodeCache(conn *sql.DB, dialect db.Dialect) ports.GeocodeCache {
	if dialect == db.Postgres {
		return cache.NewSQLGeocodeCache(conn)
	}
	return cache.NewSqliteGeocodeCache(conn)
}

// newRouteCache prefers Redis when REDIS_URL is set and falls back to the SQL database.
func newRouteCache(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.RouteCache, func(), error) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisRouteCacheFromURL(ctx, cfg.RedisURL, cfg.RouteCacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	return cache.NewSQLRouteCache(conn, dialect, cfg.RouteCacheTTL), func() {}, nil
}
