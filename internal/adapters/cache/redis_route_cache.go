package cache

import (
	"context"
	"detour-route-service/internal/platform/obs"
	"detour-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores routing responses in Redis with a fixed TTL.
type RedisRouteCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, prefix: "detour:", ttl: ttl}
}

// NewRedisRouteCacheFromURL parses a redis:// URL and verifies the connection.
func NewRedisRouteCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisRouteCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis route cache: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis route cache: ping: %w", err)
	}

	return NewRedisRouteCache(client, ttl), nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ *ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var res ports.RouteResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false, fmt.Errorf("redis decode %q: %w", key, err)
	}
	return &res, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, result *ports.RouteResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}

	if err := c.client.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (c *RedisRouteCache) Close() error {
	return c.client.Close()
}
