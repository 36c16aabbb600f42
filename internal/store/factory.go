package store

import (
	"context"
	"fmt"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Open creates a Store for the configured backend. path is used by badger;
// redis uses opts.
func Open(ctx context.Context, backend, path string, opts RedisOptions) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(path)
	case BackendRedis:
		return OpenRedisStore(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
