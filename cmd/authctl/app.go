package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/authkit/pkg/guard"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/persist"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/pkg/session"
	"github.com/dmitrymomot/authkit/pkg/sqlite"
)

// app wires the session components together. The persisted session is
// loaded before app is returned, so every guard decision sees a rehydrated
// manager.
type app struct {
	cfg     appConfig
	log     *slog.Logger
	client  *identity.Client
	manager *session.Manager
	adapter *persist.Adapter
	guard   *guard.Guard
	checks  []httpserver.Check
	closers []io.Closer
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	storage, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.client, err = identity.NewFromConfig(cfg.Identity, identity.WithLogger(log))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.manager = session.NewFromConfig(a.client, cfg.Session, session.WithLogger(log))
	a.closers = append(a.closers, a.manager)

	a.adapter = persist.NewFromConfig(storage, cfg.Persist, persist.WithLogger(log))
	a.guard = guard.NewFromConfig(cfg.Guard,
		guard.WithFallback(a.adapter),
		guard.WithLogger(log),
	)

	// Observe first so the rehydrated session is saved with a fresh expiration.
	a.adapter.Observe(a.manager)
	restored := a.adapter.Rehydrate(ctx, a.manager)

	log.DebugContext(ctx, "session initialized",
		logger.Component("authctl"),
		logger.Phase(string(a.manager.Phase())),
		slog.Bool("restored", restored),
		slog.String("storage", cfg.Storage),
	)
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (persist.Storage, error) {
	switch a.cfg.Storage {
	case driverMemory:
		return persist.NewMemoryStorage(), nil

	case driverFile, "":
		return persist.NewFileStorageFromConfig(a.cfg.Persist)

	case driverRedis:
		client, err := redis.Connect(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		return redis.NewStorageFromConfig(client, a.cfg.Redis), nil

	case driverSQLite:
		db, err := sqlite.Open(ctx, a.cfg.SQLite)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		a.checks = append(a.checks, httpserver.Check{Name: "sqlite", Fn: sqlite.Healthcheck(db)})
		return sqlite.NewStorageFromConfig(db, a.cfg.SQLite)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
