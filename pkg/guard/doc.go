// Package guard decides whether protected views may be accessed.
//
// CanAccess allows a navigation when the session has a token. Otherwise it
// falls back to the persisted record, which matters only before the session
// has been rehydrated at startup. With neither, the decision is a redirect to
// the sign-in path that carries the attempted location as ?from=, so the host
// can resume it after sign-in via ReturnPath.
//
//	g := guard.New(guard.WithFallback(adapter))
//	r.With(g.Middleware(manager)).Get("/dashboard", dashboard)
package guard
