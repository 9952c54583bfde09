package storage

import (
	"context"
	"errors"
	"fmt"

	"farmmarket/console/internal/config"
)

var ErrNotFound = errors.New("storage: key not found")

// Storage is the persistent key/value area that holds client state between
// runs, the console counterpart of browser local storage.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open selects the driver named in cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.AppConfig) (Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case "file":
		return NewFileStorage(cfg.Storage.Path, cfg.Storage.Secret), nil
	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStorage(client, cfg.Storage.Namespace), nil
	case "postgres":
		pool, err := NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStorage(pool, cfg.Storage.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}
