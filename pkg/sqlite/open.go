package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const schema = `CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
)`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// Open opens the database at cfg.Path, applies pragmas and creates the
// key-value table. Opening is retried per cfg, which covers a file that is
// briefly locked by another process.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if !validTable.MatchString(cfg.Table) {
		return nil, ErrInvalidTable
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	retries := uint64(max(cfg.RetryAttempts-1, 0))
	backoff := retry.WithMaxRetries(retries, retry.NewConstant(max(cfg.RetryInterval, 1)))

	var db *sql.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return err
		}

		// SQLite only supports one writer at a time.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)

		if err := initialize(ctx, conn, cfg.Table); err != nil {
			_ = conn.Close()
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrDatabaseNotReady, err)
	}

	return db, nil
}

func initialize(ctx context.Context, db *sql.DB, table string) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, table)); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Healthcheck returns a probe that pings the database.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
