package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/session"
)

var (
	errUsage  = errors.New("authctl.usage")
	errDenied = errors.New("authctl.access_denied")
)

var stdout io.Writer = os.Stdout

func cmdSignIn(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	var creds identity.Credentials
	fs.StringVar(&creds.Username, "username", "", "account username")
	fs.StringVar(&creds.Password, "password", os.Getenv("AUTHCTL_PASSWORD"), "account password (or AUTHCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if creds.Username == "" || creds.Password == "" {
		return errUsage
	}

	if err := a.manager.SignIn(ctx, creds); err != nil {
		return failure(a.manager, err)
	}
	return printState(a.manager)
}

func cmdSignUp(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	var reg identity.Registration
	fs.StringVar(&reg.FirstName, "first", "", "first name")
	fs.StringVar(&reg.LastName, "last", "", "last name")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Password, "password", os.Getenv("AUTHCTL_PASSWORD"), "password (or AUTHCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if reg.Email == "" || reg.Password == "" {
		return errUsage
	}

	payload, err := a.manager.SignUp(ctx, reg)
	if err != nil {
		return failure(a.manager, err)
	}
	_, err = fmt.Fprintf(stdout, "%s\n", payload)
	return err
}

func cmdSignOut(ctx context.Context, a *app) error {
	a.manager.SignOut(ctx)
	return printState(a.manager)
}

func cmdStatus(a *app) error {
	return printState(a.manager)
}

func cmdCheck(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	d := a.guard.CanAccess(ctx, a.manager.Snapshot(), args[0])
	if !d.Allowed {
		fmt.Fprintf(stdout, "redirect %s\n", d.RedirectURL())
		return errDenied
	}
	_, err := fmt.Fprintf(stdout, "allow (%s)\n", d.Source)
	return err
}

// failure prefers the message recorded on the session, which is what a user
// would be shown.
func failure(m *session.Manager, err error) error {
	if msg := m.Snapshot().ErrorValue(); msg != "" {
		return errors.New(msg)
	}
	return err
}

// stateView is the printable session; the bearer token itself is never shown.
type stateView struct {
	Phase      session.Phase   `json:"phase"`
	HasToken   bool            `json:"hasToken"`
	User       json.RawMessage `json:"user"`
	Loading    bool            `json:"loading"`
	Error      *string         `json:"error"`
	IsLoggedIn bool            `json:"isLoggedIn"`
}

func newStateView(phase session.Phase, s session.State) stateView {
	return stateView{
		Phase:      phase,
		HasToken:   s.HasToken(),
		User:       s.User,
		Loading:    s.Loading,
		Error:      s.Error,
		IsLoggedIn: s.IsLoggedIn,
	}
}

func printState(m *session.Manager) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(newStateView(m.Phase(), m.Snapshot()))
}
