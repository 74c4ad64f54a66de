package database

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
)

func TestSQLiteFilePath(t *testing.T) {
	cases := map[string]string{
		"/tmp/state.db":                       "/tmp/state.db",
		"file:/tmp/state.db?_fk=1":            "/tmp/state.db",
		":memory:":                            "",
		"file:state?mode=memory&cache=shared": "",
	}
	for dsn, want := range cases {
		if got := sqliteFilePath(dsn); got != want {
			t.Fatalf("sqliteFilePath(%q) = %q, want %q", dsn, got, want)
		}
	}
}

func TestDialect(t *testing.T) {
	if name, err := Dialect(config.DriverSQLite); err != nil || name != dialect.SQLite {
		t.Fatalf("Dialect(sqlite3) = %q, %v", name, err)
	}
	if name, err := Dialect(config.DriverPostgres); err != nil || name != dialect.Postgres {
		t.Fatalf("Dialect(postgres) = %q, %v", name, err)
	}
	if _, err := Dialect(config.DriverRedis); err == nil {
		t.Fatalf("expected error for redis")
	}
}

func TestNewDriverCreatesSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	drv, cleanup, err := NewDriver(config.StorageConfig{Driver: config.DriverSQLite, DSN: path})
	if err != nil {
		t.Fatalf("NewDriver returned error: %v", err)
	}
	defer cleanup()
	if err := drv.Exec(context.Background(), "SELECT 1", []any{}, nil); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
}
