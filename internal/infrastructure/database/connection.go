package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
)

// openDB opens and pings a database/sql handle for the storage driver.
func openDB(cfg config.StorageConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(cfg.DSN)
	case config.DriverSQLite:
		return openSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(dsn string) (*sql.DB, error) {
	rawDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	rawDB.SetMaxOpenConns(4)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return rawDB, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = config.DefaultStatePath()
	}
	if path := sqliteFilePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	rawDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("set sqlite busy timeout: %w", err)
	}
	return rawDB, nil
}

// sqliteFilePath returns the on-disk path of a sqlite DSN, or "" for
// in-memory databases.
func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return path
}
