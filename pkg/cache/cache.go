// Package cache provides byte caches for rendered artifacts and fetched
// inputs.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers running several
//     replicas
//   - [MemoryCache]: a process-local map, for a single server and tests
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// Keys are built by a [Keyer] so that every backend sees the same layout:
// "artifact:<sha256>" for rendered outputs and "source:<sha256>" for fetched
// documents. Use [NewScopedKeyer] to isolate tenants that share a backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value stored under key. The second result is false
	// on a miss, including expired entries.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values per entry kind.
const (
	// TTLArtifact applies to rendered SVG, HTML, JSON, DOT, PNG and PDF.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLSource applies to documents fetched over HTTP.
	TTLSource = time.Hour
)
