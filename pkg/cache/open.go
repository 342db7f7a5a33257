package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendTiered = "tiered"
	BackendNone   = "none"
)

// Backends lists the names accepted by Open.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendTiered, BackendNone}

// Config selects and configures a cache backend.
type Config struct {
	Backend string

	// Dir roots the file backend.
	Dir string

	RedisURL string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open builds the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		return NewFileCache(cfg.Dir)
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, cfg.RedisURL)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case BackendTiered:
		fast, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		durable, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			fast.Close()
			return nil, err
		}
		return NewTieredCache(fast, durable), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
