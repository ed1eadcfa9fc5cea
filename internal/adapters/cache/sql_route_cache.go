package cache

import (
	"context"
	"database/sql"
	"detour-route-service/internal/platform/db"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLRouteCache persists routing responses in the route_cache table.
// It works against both SQLite and PostgreSQL; Dialect selects the placeholder style.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	TTL     time.Duration
	now     func() time.Time
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Dialect: dialect, TTL: ttl, now: time.Now}
}

func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ *ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT payload, created_at
    FROM route_cache
    WHERE cache_key = ?;
	`)

	var payload string
	var createdAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.Unix(createdAt, 0)) > s.TTL {
		return nil, false, nil
	}

	var res ports.RouteResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return &res, true, nil
}

func (s *SQLRouteCache) Put(ctx context.Context, key string, result *ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO route_cache (cache_key, payload, created_at)
    VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`)

	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), s.now().Unix()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
