package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daydash-app/daydash/internal/dbx"
	"github.com/daydash-app/daydash/internal/localstore/migrations"
	"github.com/pressly/goose/v3"
)

// SQLiteStorage implements Storage over a single kv table, bound to a
// dbx.DBTX (either *sql.DB or *sql.Tx).
type SQLiteStorage struct {
	db dbx.DBTX
}

// NewSQLiteStorage returns a SQLiteStorage bound to the given DBTX.
func NewSQLiteStorage(db dbx.DBTX) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Open opens (or creates) the client database at dsn and applies migrations.
// The caller is responsible for importing a SQLite driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return db, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, bool, error) {
	query := `select value from kv where key=?`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	query := `insert into kv (key, value) values (?, ?)
		on conflict(key) do update set value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `delete from kv where key=?`, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
