package guard

import (
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/session"
)

// StateSource provides the current session state. *session.Manager implements it.
type StateSource interface {
	Snapshot() session.State
}

// Middleware protects the wrapped handler. Allowed requests carry the
// granting state in their context (see session.StateFromContext); denied
// requests are redirected to the sign-in path with the requested location.
func (g *Guard) Middleware(source StateSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.CanAccess(r.Context(), source.Snapshot(), r.URL.RequestURI())
			if !d.Allowed {
				http.Redirect(w, r, d.RedirectURL(), http.StatusFound)
				return
			}

			ctx := session.WithState(r.Context(), d.State)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ReturnPath resolves where to go after a successful sign-in: the captured
// location when it is a safe local path, the home path otherwise.
func (g *Guard) ReturnPath(r *http.Request) string {
	from := r.URL.Query().Get(g.returnParam)
	if SafeReturnPath(from) && !g.isSignInPath(from) {
		return from
	}
	return g.homePath
}
