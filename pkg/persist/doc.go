// Package persist stores the session state across restarts.
//
// The Adapter writes a single JSON record under a fixed key (authState by
// default):
//
//	{"token": "...", "user": {...}, "loading": false, "error": null,
//	 "isLoggedIn": true, "expiration": 1735689600000}
//
// Every save stamps expiration as now plus the retention window (24h by
// default). Load evicts a record whose expiration has passed, and treats
// missing or corrupt records as no session. Storage failures are logged and
// never block sign-in.
//
// Storage backends implement the Storage interface. This package ships
// MemoryStorage and FileStorage; the redis and sqlite packages provide
// shared backends.
//
//	adapter := persist.New(storage, persist.WithLogger(log))
//	adapter.Rehydrate(ctx, manager)
//	defer adapter.Observe(manager)()
package persist
