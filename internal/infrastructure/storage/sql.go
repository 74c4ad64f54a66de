package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const stateTable = "console_state"

// SQLStore persists state in a single table through an ent dialect driver,
// so the same statements run on SQLite and PostgreSQL.
type SQLStore struct {
	drv   *entsql.Driver
	clock func() time.Time
}

// NewSQLStore wraps drv and creates the state table when missing.
func NewSQLStore(ctx context.Context, drv *entsql.Driver) (*SQLStore, error) {
	s := &SQLStore{drv: drv, clock: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.drv.Dialect())
}

func (s *SQLStore) migrate(ctx context.Context) error {
	query, args := s.builder().CreateTable(stateTable).
		IfNotExists().
		Columns(
			entsql.Column("state_key").Type("varchar(255)").Attr("NOT NULL"),
			entsql.Column("state_value").Type("text").Attr("NOT NULL"),
			entsql.Column("updated_at").Type("timestamp").Attr("NOT NULL"),
		).
		PrimaryKey("state_key").
		Query()
	if _, err := s.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s table: %w", stateTable, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	query, args := s.builder().Select("state_value").
		From(s.builder().Table(stateTable)).
		Where(entsql.EQ("state_key", key)).
		Query()

	var value string
	if err := s.drv.DB().QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("get state %q: %w", key, err)
	}
	return value, nil
}

// Put replaces the value under key in one transaction.
func (s *SQLStore) Put(ctx context.Context, key, value string) error {
	tx, err := s.drv.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	delQuery, delArgs := s.builder().Delete(stateTable).Where(entsql.EQ("state_key", key)).Query()
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("clear state %q: %w", key, err)
	}
	insQuery, insArgs := s.builder().Insert(stateTable).
		Columns("state_key", "state_value", "updated_at").
		Values(key, value, s.clock().UTC()).
		Query()
	if _, err := tx.ExecContext(ctx, insQuery, insArgs...); err != nil {
		return fmt.Errorf("put state %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query, args := s.builder().Delete(stateTable).Where(entsql.EQ("state_key", key)).Query()
	if _, err := s.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.drv.Close() }
