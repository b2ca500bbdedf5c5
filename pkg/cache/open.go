package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Settings selects and configures a backend.
type Settings struct {
	Backend    string
	Dir        string // file backend
	URL        string // redis or mongo connection string
	Database   string // mongo only
	Collection string // mongo only
}

// Open constructs the backend named by s.Backend. An empty backend name
// means BackendFile.
func Open(ctx context.Context, s Settings) (Cache, error) {
	switch s.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		if s.Dir == "" {
			return nil, fmt.Errorf("file cache: directory not set")
		}
		return NewFileCache(s.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, s.URL)
	case BackendMongo:
		return NewMongoCache(ctx, s.URL, s.Database, s.Collection)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
}
