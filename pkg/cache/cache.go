// Package cache provides pluggable storage for computed layouts and
// rendered artifacts.
//
// Layout computation is cheap, but rendering through Graphviz and serving
// repeated API requests are not, so both the CLI and the API server run
// through a [Cache]. Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for multiple API instances
//   - [MongoCache]: document store with a TTL index
//
// Keys are produced by a [Keyer] from content hashes, so identical tasks
// and tuning always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
