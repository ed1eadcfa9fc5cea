package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port                 string
	DBPath               string
	DatabaseURL          string
	CatalogSeedPath      string
	OSRMBaseURL          string
	ORSAPIKey            string
	RedisURL             string
	RouteCacheTTL        time.Duration
	DetourCeilingMinutes float64
	DetourConcurrency    int
	Location             *time.Location
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:                 Get("PORT", "8080"),
		DBPath:               Get("DB_PATH", "data/app.db"),
		DatabaseURL:          Get("DATABASE_URL", ""),
		CatalogSeedPath:      Get("CATALOG_SEED_PATH", "data/seeds/catalog.json"),
		OSRMBaseURL:          Get("OSRM_BASE_URL", "https://router.project-osrm.org"),
		ORSAPIKey:            Get("ORS_API_KEY", ""),
		RedisURL:             Get("REDIS_URL", ""),
		RouteCacheTTL:        GetDuration("ROUTE_CACHE_TTL", 24*time.Hour),
		DetourCeilingMinutes: GetFloat("DETOUR_CEILING_MINUTES", 10),
		DetourConcurrency:    GetInt("DETOUR_CONCURRENCY", 4),
		Location:             time.Local,
	}

	if tz := Get("PLANNER_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("config: PLANNER_TIMEZONE=%q: %w", tz, err)
		}
		cfg.Location = loc
	}

	if cfg.DetourCeilingMinutes <= 0 {
		return Config{}, fmt.Errorf("config: DETOUR_CEILING_MINUTES must be positive, got %g", cfg.DetourCeilingMinutes)
	}
	if cfg.DetourConcurrency < 1 {
		return Config{}, fmt.Errorf("config: DETOUR_CONCURRENCY must be at least 1, got %d", cfg.DetourConcurrency)
	}

	return cfg, nil
}
