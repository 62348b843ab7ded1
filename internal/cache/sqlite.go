// Package cache is a small TTL response cache backed by SQLite. It holds
// raw upstream payloads for the bulk market fetches; it never stores
// conversation state.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db     *sql.DB
	ttl    time.Duration
	clock  func() time.Time
	logger *slog.Logger
}

func New(dbPath string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, ttl: ttl, clock: time.Now, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key         TEXT PRIMARY KEY,
		payload     BLOB NOT NULL,
		expires_at  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_expiry ON responses(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached payload for key if it has not expired. Expired
// rows are deleted on read.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM responses WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("cache read failed", "key", key, "err", err)
		}
		return nil, false
	}
	if s.clock().Unix() >= expiresAt {
		if _, derr := s.db.ExecContext(ctx, `DELETE FROM responses WHERE key = ?`, key); derr != nil {
			s.logger.Warn("cache expiry delete failed", "key", key, "err", derr)
		}
		return nil, false
	}
	return payload, true
}

// Put stores payload under key with the store's TTL.
func (s *Store) Put(ctx context.Context, key string, payload []byte) {
	expiresAt := s.clock().Add(s.ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, payload, expires_at) VALUES (?, ?, ?)`,
		key, payload, expiresAt,
	)
	if err != nil {
		s.logger.Warn("cache write failed", "key", key, "err", err)
	}
}

// Sweep removes all expired rows. Called opportunistically at startup.
func (s *Store) Sweep(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM responses WHERE expires_at <= ?`, s.clock().Unix())
	return err
}

func (s *Store) Close() error { return s.db.Close() }
