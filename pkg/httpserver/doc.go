// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, health-check handlers and slog logging.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then shuts the server down with a configurable deadline. Errors
// are wrapped with ErrStart and ErrShutdown so they can be inspected with
// errors.Is.
//
//	r := chi.NewRouter()
//	r.Get("/livez", httpserver.Liveness())
//	r.Get("/readyz", httpserver.Readiness(log, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)}))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
