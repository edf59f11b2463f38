// Package session holds the authoritative client-side session state and the
// transitions that change it.
//
// A Manager starts anonymous. SignIn and SignUp call the identity service
// through an Authenticator and move the session through the phases
//
//	anonymous -> authenticating -> authenticated | failed
//
// with SignOut returning to anonymous from anywhere. Phase transitions are
// validated by a statemachine.Machine. State.IsLoggedIn always mirrors whether
// a token is present, and State.Loading is set only while the most recent
// attempt is in flight.
//
// # Overlapping attempts
//
// Each attempt captures a generation number. When a slower, older attempt
// returns after a newer one started (or after SignOut), its result is dropped
// and the call returns ErrSuperseded.
//
// # Observing changes
//
// OnChange registers synchronous listeners called in mutation order; the
// persist package uses this to save on every change. Watch returns a buffered
// subscription for consumers that must never slow the Manager down.
//
//	m := session.New(client, session.WithLogger(log))
//	m.OnChange(func(ctx context.Context, c session.Change) {
//		fmt.Println(c.Event, c.Phase, c.State.IsLoggedIn)
//	})
//	if err := m.SignIn(ctx, identity.Credentials{Username: u, Password: p}); err != nil {
//		fmt.Println(m.Snapshot().ErrorValue())
//	}
//
// Rehydrate seeds the Manager from a persisted state at startup without a
// network call.
package session
