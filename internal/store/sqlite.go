package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLStore struct {
	db *sql.DB
}

// Open initialises the token database at path and applies the schema.
func Open(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS tokens (
        key TEXT PRIMARY KEY,
        token TEXT NOT NULL,
        expires_at TIMESTAMP NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Get returns the stored token for key. An expired row is deleted and
// reported as missing.
func (s *SQLStore) Get(ctx context.Context, key string) (Token, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, expires_at FROM tokens WHERE key = ?`, key)

	var t Token
	var expiresAt string
	if err := row.Scan(&t.Value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, fmt.Errorf("query token: %w", err)
	}

	t.Key = key
	parsed, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return Token{}, fmt.Errorf("parse expiry: %w", err)
	}
	t.ExpiresAt = parsed

	if time.Now().After(t.ExpiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key)
		return Token{}, ErrNotFound
	}
	return t, nil
}

// Put stores token, replacing any previous row for the same key.
func (s *SQLStore) Put(ctx context.Context, token Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tokens (key, token, expires_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at`,
		token.Key, token.Value, token.ExpiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
