// Package storage keeps the console's small amount of client-side state,
// such as the signed-in operator, in a durable key/value store.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
	"github.com/eslsoft/pronadmin/internal/infrastructure/database"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a string key/value store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log logrus.FieldLogger) (KV, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverRedis:
		return NewRedisStore(ctx, cfg.DSN)
	case config.DriverSQLite, config.DriverPostgres:
		drv, cleanup, err := database.NewDriver(cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(ctx, drv)
		if err != nil {
			cleanup()
			return nil, err
		}
		if log != nil {
			log.WithField("driver", cfg.Driver).Debug("state store ready")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
