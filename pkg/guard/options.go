package guard

import "log/slog"

// Defaults.
const (
	DefaultSignInPath  = "/auth/sign-in"
	DefaultHomePath    = "/"
	DefaultReturnParam = "from"
)

// Option configures a Guard.
type Option func(*Guard)

// WithFallback sets the persisted-session reader consulted when the
// in-memory state has no token.
func WithFallback(l RecordLoader) Option {
	return func(g *Guard) {
		g.fallback = l
	}
}

// WithSignInPath sets the redirect target for denied navigations.
func WithSignInPath(p string) Option {
	return func(g *Guard) {
		if p != "" {
			g.signInPath = p
		}
	}
}

// WithHomePath sets where ReturnPath falls back to.
func WithHomePath(p string) Option {
	return func(g *Guard) {
		if SafeReturnPath(p) {
			g.homePath = p
		}
	}
}

// WithReturnParam sets the query parameter carrying the return location.
func WithReturnParam(name string) Option {
	return func(g *Guard) {
		if name != "" {
			g.returnParam = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}
