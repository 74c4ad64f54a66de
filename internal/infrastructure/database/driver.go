package database

import (
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
)

// NewDriver opens the configured SQL database wrapped in an ent dialect
// driver, so callers can build portable statements with entsql.Dialect.
func NewDriver(cfg config.StorageConfig) (*entsql.Driver, func(), error) {
	name, err := Dialect(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	rawDB, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	drv := entsql.OpenDB(name, rawDB)
	return drv, func() {
		_ = drv.Close()
	}, nil
}

// Dialect maps a storage driver to its ent dialect name.
func Dialect(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return dialect.Postgres, nil
	case config.DriverSQLite:
		return dialect.SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
