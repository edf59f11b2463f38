package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/requestid"
	"github.com/dmitrymomot/authkit/pkg/session"
)

const maxRequestBody = 64 << 10

func cmdServe(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.HTTP.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := a.cfg.HTTP
	cfg.Addr = *addr
	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(a.log))
	return srv.Run(ctx, newRouter(a))
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/livez", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(a.log, a.checks...))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/sign-in", a.handleSignInPage)
		r.Post("/sign-in", a.handleSignIn)
		r.Post("/sign-up", a.handleSignUp)
		r.Post("/sign-out", a.handleSignOut)
		r.Get("/state", a.handleState)
	})

	r.With(a.guard.Middleware(a.manager)).Get("/dashboard", a.handleDashboard)

	return r
}

type signInResponse struct {
	State    stateView `json:"state"`
	Redirect string    `json:"redirect,omitempty"`
}

func (a *app) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"action": "POST /auth/sign-in",
		"from":   a.guard.ReturnPath(r),
	})
}

func (a *app) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds identity.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	err := a.manager.SignIn(r.Context(), creds)
	state := newStateView(a.manager.Phase(), a.manager.Snapshot())
	switch {
	case errors.Is(err, session.ErrSuperseded):
		writeJSON(w, http.StatusConflict, signInResponse{State: state})
	case err != nil:
		writeJSON(w, statusFor(err), signInResponse{State: state})
	default:
		writeJSON(w, http.StatusOK, signInResponse{State: state, Redirect: a.guard.ReturnPath(r)})
	}
}

func (a *app) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var reg identity.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}

	payload, err := a.manager.SignUp(r.Context(), reg)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, session.ErrSuperseded) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]any{"state": newStateView(a.manager.Phase(), a.manager.Snapshot())})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"result": payload})
}

func (a *app) handleSignOut(w http.ResponseWriter, r *http.Request) {
	a.manager.SignOut(r.Context())
	writeJSON(w, http.StatusOK, newStateView(a.manager.Phase(), a.manager.Snapshot()))
}

func (a *app) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newStateView(a.manager.Phase(), a.manager.Snapshot()))
}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s, _ := session.StateFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": s.User})
}

// statusFor maps identity failures to HTTP statuses for the demo host.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrProfileFetch):
		return http.StatusBadGateway
	case errors.Is(err, identity.ErrRejected):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrTransport), errors.Is(err, identity.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
