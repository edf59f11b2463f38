package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Storage is a persist.Storage backed by a SQLite table.
// Rows past their expiration are treated as missing and removed on read.
type Storage struct {
	db  *sql.DB
	now func() time.Time

	getQuery    string
	setQuery    string
	deleteQuery string
}

// NewStorage uses table in db. The table must exist; Open creates it.
func NewStorage(db *sql.DB, table string) (*Storage, error) {
	if !validTable.MatchString(table) {
		return nil, ErrInvalidTable
	}
	return &Storage{
		db:          db,
		now:         time.Now,
		getQuery:    fmt.Sprintf("SELECT value, expires_at FROM %s WHERE key = ?", table),
		setQuery:    fmt.Sprintf("INSERT INTO %s (key, value, expires_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at", table),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE key = ?", table),
	}, nil
}

// NewStorageFromConfig uses cfg.Table in db.
func NewStorageFromConfig(db *sql.DB, cfg Config) (*Storage, error) {
	return NewStorage(db, cfg.Table)
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if expiresAt != 0 && s.now().UnixMilli() >= expiresAt {
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return value, nil
}

// Set upserts value. Zero ttl means no expiration.
func (s *Storage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixMilli()
	}
	_, err := s.db.ExecContext(ctx, s.setQuery, key, value, expiresAt)
	return err
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.deleteQuery, key)
	return err
}
