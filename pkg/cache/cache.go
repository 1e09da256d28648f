// Package cache provides byte-oriented key-value backends.
//
// The same [Cache] interface backs three concerns in evotree:
//
//   - the alias enrichment cache (vernacular-name lists per taxon key)
//   - optional HTTP response caching for the taxonomy service
//   - the persisted main tree (a single key holding the tree JSON)
//
// # Backends
//
//   - [MemoryCache]: process-lifetime map with an injectable clock
//   - [FileCache]: JSON entry files under a directory (CLI default for the tree)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document-per-key store
//   - [NullCache]: never stores anything
//
// A TTL of zero means the entry never expires.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store of opaque bytes.
//
// Get returns (nil, false, nil) on a miss or an expired entry. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
