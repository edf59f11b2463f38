package guard

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/persist"
	"github.com/dmitrymomot/authkit/pkg/session"
)

// Source tells where an allow decision came from.
type Source string

const (
	SourceNone      Source = ""
	SourceSession   Source = "session"
	SourcePersisted Source = "persisted"
)

// RecordLoader reads the persisted session. *persist.Adapter implements it.
type RecordLoader interface {
	Load(ctx context.Context) (*persist.Record, bool)
}

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Source  Source
	// State is the session that granted access, empty on redirect.
	State session.State

	// Target and ReturnTo are set on redirect.
	Target   string
	ReturnTo string

	returnParam string
}

// RedirectURL returns Target with the captured location attached, or an
// empty string for an allow decision.
func (d Decision) RedirectURL() string {
	if d.Allowed {
		return ""
	}
	if d.ReturnTo == "" {
		return d.Target
	}
	param := d.returnParam
	if param == "" {
		param = DefaultReturnParam
	}
	sep := "?"
	if strings.Contains(d.Target, "?") {
		sep = "&"
	}
	return d.Target + sep + url.Values{param: {d.ReturnTo}}.Encode()
}

// Guard decides whether a protected location may be accessed.
//
// The in-memory session state is consulted first. Only when it carries no
// token is the persisted record read, which covers navigations that happen
// before the session was rehydrated. The fallback never overrides a state
// that is already authenticated.
type Guard struct {
	fallback    RecordLoader
	signInPath  string
	homePath    string
	returnParam string
	logger      *slog.Logger
}

// New creates a Guard.
func New(opts ...Option) *Guard {
	g := &Guard{
		signInPath:  DefaultSignInPath,
		homePath:    DefaultHomePath,
		returnParam: DefaultReturnParam,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanAccess returns the decision for navigating to location with state.
func (g *Guard) CanAccess(ctx context.Context, state session.State, location string) Decision {
	if state.HasToken() {
		return Decision{Allowed: true, Source: SourceSession, State: state}
	}

	if g.fallback != nil {
		if rec, ok := g.fallback.Load(ctx); ok && rec.HasToken() {
			g.logger.DebugContext(ctx, "access granted from persisted session",
				logger.Component("guard"),
				logger.Path(location),
			)
			return Decision{Allowed: true, Source: SourcePersisted, State: rec.State}
		}
	}

	d := Decision{Target: g.signInPath, returnParam: g.returnParam}
	if SafeReturnPath(location) && !g.isSignInPath(location) {
		d.ReturnTo = location
	}

	g.logger.DebugContext(ctx, "access denied",
		logger.Component("guard"),
		logger.Path(location),
	)
	return d
}

func (g *Guard) isSignInPath(location string) bool {
	u, err := url.Parse(location)
	return err == nil && u.Path == g.signInPath
}

// SafeReturnPath reports whether p is a local absolute path that can be
// redirected to without leaving the current origin.
func SafeReturnPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	// Protocol-relative and backslash variants are treated as hosts by browsers.
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	if strings.ContainsAny(p, "\r\n\t") {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
