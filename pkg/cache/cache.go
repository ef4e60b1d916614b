// Package cache stores import and layout results between runs.
//
// Three backends share the [Cache] interface:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so that callers never build key strings by
// hand. A layout key covers the content hash of the track plus every
// option that changes the result; two runs with identical input and
// options share an entry.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLImport applies to parsed feature tracks.
	TTLImport = 7 * 24 * time.Hour

	// TTLLayout applies to computed layouts.
	TTLLayout = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
