package storage

import (
	"context"
	"fmt"

	"tuneshelf/config"
)

// Store is a synchronous key-value medium holding JSON-encoded text
// values. Keys are flat strings ("users", "currentUser", "songs"); a
// missing key is reported via the boolean, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the store selected by cfg.StorageDriver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "file":
		return NewFileStore(cfg.StorageFile), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg)
	case "mysql":
		return NewGormStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
