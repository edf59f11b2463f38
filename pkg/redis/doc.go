// Package redis provides a Redis backend for persisted sessions.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which pings the server with retries before handing out a client.
//   - Storage, a persist.Storage implementation with key prefixing and TTLs.
//   - Healthcheck, for readiness probes.
//
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	adapter := persist.New(redis.NewStorageFromConfig(client, cfg))
//
// Sentinel errors such as ErrNotReady wrap the underlying go-redis errors
// using errors.Join.
package redis
