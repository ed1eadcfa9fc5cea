package ports

import "context"

// Cache of routing responses keyed by a canonical request key.
type RouteCache interface {
	// Get reports false when the key is absent or expired.
	Get(ctx context.Context, key string) (*RouteResult, bool, error)
	Put(ctx context.Context, key string, result *RouteResult) error
}
