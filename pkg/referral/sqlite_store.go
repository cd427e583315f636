package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteDefs = []string{
	`CREATE TABLE IF NOT EXISTS referral_kv (
     key TEXT PRIMARY KEY ON CONFLICT REPLACE,
     value TEXT NOT NULL
   )`,
}

const (
	sqlqGet    = "SELECT value FROM referral_kv WHERE key = ?"
	sqlqSet    = "INSERT INTO referral_kv (key, value) VALUES (?, ?)"
	sqlqDelete = "DELETE FROM referral_kv WHERE key = ?"
)

// SQLiteStore keeps values in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:" for
// a throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteDefs {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite store: create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, sqlqGet, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite store: get: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, sqlqSet, key, value); err != nil {
		return fmt.Errorf("sqlite store: set: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, sqlqDelete, key); err != nil {
		return fmt.Errorf("sqlite store: delete: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
