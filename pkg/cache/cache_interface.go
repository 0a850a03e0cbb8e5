package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Keeping this an interface lets repositories swap implementations
// (Redis, in-memory) without touching call sites.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns (found, error):
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	// Used for list/stats invalidation after writes.
	DeletePattern(ctx context.Context, pattern string) error

	// Exists reports whether a key is present. Used for job
	// deduplication markers.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
