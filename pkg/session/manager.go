package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/broadcast"
	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/statemachine"
)

// Authenticator performs the remote identity calls. *identity.Client implements it.
type Authenticator interface {
	SignIn(ctx context.Context, creds identity.Credentials) (*identity.Result, error)
	SignUp(ctx context.Context, reg identity.Registration) (json.RawMessage, error)
}

// Listener is notified synchronously after every state change, in mutation order.
// Listeners must not call mutating Manager methods.
type Listener func(ctx context.Context, change Change)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Manager owns the session state and is the only place it is mutated.
// It is safe for concurrent use.
//
// Every sign-in or sign-up captures a generation number when it starts. When the
// remote call returns, its result is applied only if no newer attempt and no
// sign-out happened in between; otherwise it is discarded with ErrSuperseded.
type Manager struct {
	auth        Authenticator
	logger      *slog.Logger
	watchBuffer int

	// emitMu is held across a mutation and its notification so that
	// listeners observe changes in the order they were applied.
	emitMu sync.Mutex

	mu    sync.Mutex
	state State
	gen   uint64
	phase *statemachine.Machine[Phase, Event]

	lmu       sync.Mutex
	listeners []listenerEntry
	nextID    uint64

	changes *broadcast.MemoryBroadcaster[Change]
}

// New creates a Manager in the anonymous state.
func New(auth Authenticator, opts ...Option) *Manager {
	if auth == nil {
		panic("session: authenticator is required")
	}

	m := &Manager{
		auth:        auth,
		logger:      logger.Discard(),
		watchBuffer: DefaultConfig().WatchBuffer,
		state:       Anonymous(),
		phase:       newPhaseMachine(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.changes = broadcast.NewMemoryBroadcaster[Change](m.watchBuffer)

	return m
}

// SignIn authenticates creds and, on success, marks the session logged in.
//
// A failure is recorded in State.Error and returned. If the attempt was
// superseded the result is not applied and the returned error matches ErrSuperseded.
func (m *Manager) SignIn(ctx context.Context, creds identity.Credentials) error {
	gen, attempt := m.begin(ctx, EventSignInStarted)
	start := time.Now()

	res, err := m.auth.SignIn(ctx, creds)
	if err == nil && res == nil {
		err = &identity.Error{Op: identity.EndpointSignIn, Kind: identity.KindMalformed, Message: identity.MsgSignInFailed}
	}
	if err != nil {
		msg := identity.Message(err, identity.MsgSignInFailed)
		cerr := m.commit(ctx, gen, attempt, EventSignInFailed, func(s *State) {
			s.Loading = false
			s.Error = &msg
		})
		m.logger.WarnContext(ctx, "sign in failed",
			logger.Component("session"),
			logger.Attempt(attempt),
			logger.Generation(gen),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		if cerr != nil {
			return errors.Join(cerr, err)
		}
		return err
	}

	token := res.Tokens.IDToken
	user := append(Profile(nil), res.User...)
	if err := m.commit(ctx, gen, attempt, EventSignInSucceeded, func(s *State) {
		s.Loading = false
		s.Token = &token
		s.User = user
		s.Error = nil
	}); err != nil {
		m.logger.InfoContext(ctx, "sign in result discarded",
			logger.Component("session"),
			logger.Attempt(attempt),
			logger.Generation(gen),
		)
		return err
	}

	m.logger.InfoContext(ctx, "signed in",
		logger.Component("session"),
		logger.Attempt(attempt),
		logger.Generation(gen),
		logger.Duration(time.Since(start)),
	)
	return nil
}

// SignUp registers a new account. Success clears Loading and Error but does not
// sign the user in. The registration payload is returned as is.
func (m *Manager) SignUp(ctx context.Context, reg identity.Registration) (json.RawMessage, error) {
	gen, attempt := m.begin(ctx, EventSignUpStarted)
	start := time.Now()

	payload, err := m.auth.SignUp(ctx, reg)
	if err != nil {
		msg := identity.Message(err, identity.MsgSignUpFailed)
		cerr := m.commit(ctx, gen, attempt, EventSignUpFailed, func(s *State) {
			s.Loading = false
			s.Error = &msg
		})
		m.logger.WarnContext(ctx, "sign up failed",
			logger.Component("session"),
			logger.Attempt(attempt),
			logger.Generation(gen),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		if cerr != nil {
			return nil, errors.Join(cerr, err)
		}
		return nil, err
	}

	if err := m.commit(ctx, gen, attempt, EventSignUpSucceeded, func(s *State) {
		s.Loading = false
		s.Error = nil
	}); err != nil {
		return payload, err
	}

	m.logger.InfoContext(ctx, "signed up",
		logger.Component("session"),
		logger.Attempt(attempt),
		logger.Generation(gen),
		logger.Duration(time.Since(start)),
	)
	return payload, nil
}

// SignOut resets the session to the anonymous state and discards the result
// of any attempt still in flight.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.commit(ctx, 0, "", EventSignedOut, func(s *State) {
		*s = Anonymous()
	}); err != nil {
		m.logger.ErrorContext(ctx, "sign out transition failed",
			logger.Component("session"),
			logger.Error(err),
		)
		return
	}
	m.logger.InfoContext(ctx, "signed out", logger.Component("session"))
}

// Rehydrate seeds the session from a previously persisted state without
// contacting the identity service. It applies only while the session is
// anonymous or failed and only when s carries both a token and a user profile.
// It reports whether the state was applied.
func (m *Manager) Rehydrate(ctx context.Context, s State) bool {
	if !s.HasUser() {
		return false
	}

	restored := State{
		Token: clonePtr(s.Token),
		User:  append(Profile(nil), s.User...),
	}
	err := m.commit(ctx, 0, "", EventRehydrated, func(st *State) {
		*st = restored
	})
	if err != nil {
		m.logger.DebugContext(ctx, "rehydration skipped",
			logger.Component("session"),
			logger.Phase(string(m.Phase())),
			logger.Error(err),
		)
		return false
	}

	m.logger.InfoContext(ctx, "session rehydrated", logger.Component("session"))
	return true
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Phase returns the current lifecycle phase.
func (m *Manager) Phase() Phase {
	return m.phase.Current()
}

// OnChange registers a listener and returns a function that removes it.
func (m *Manager) OnChange(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	m.lmu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: l})
	m.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lmu.Lock()
			defer m.lmu.Unlock()
			for i, e := range m.listeners {
				if e.id == id {
					m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Watch returns a subscription to state changes that lives until ctx is
// cancelled. A subscriber that falls behind misses changes instead of
// blocking the Manager; use Snapshot to resynchronize.
func (m *Manager) Watch(ctx context.Context) broadcast.Subscriber[Change] {
	return m.changes.Subscribe(ctx)
}

// Close releases Watch subscribers. The Manager remains usable.
func (m *Manager) Close() error {
	return m.changes.Close()
}

func (m *Manager) begin(ctx context.Context, event Event) (uint64, string) {
	attempt := uuid.NewString()

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	next := m.state.Clone()
	next.Loading = true
	next.Error = nil
	phase, err := m.phase.Fire(ctx, event, next)
	if err != nil {
		// Start events are registered from every phase.
		panic("session: " + err.Error())
	}
	m.gen++
	gen := m.gen
	m.state = next
	change := Change{Event: event, Phase: phase, State: next.Clone(), Attempt: attempt}
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "attempt started",
		logger.Component("session"),
		logger.Operation(string(event)),
		logger.Attempt(attempt),
		logger.Generation(gen),
	)

	m.notify(ctx, change)
	return gen, attempt
}

// commit applies mutate to a copy of the state, validates the phase transition
// and publishes the result. gen zero means the change is unconditional and
// invalidates every attempt in flight.
func (m *Manager) commit(ctx context.Context, gen uint64, attempt string, event Event, mutate func(*State)) error {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if gen != 0 && gen != m.gen {
		m.mu.Unlock()
		return ErrSuperseded
	}

	next := m.state.Clone()
	mutate(&next)
	next.IsLoggedIn = next.Token != nil

	phase, err := m.phase.Fire(ctx, event, next)
	if err != nil {
		m.mu.Unlock()
		return errors.Join(ErrInvalidTransition, err)
	}
	if gen == 0 {
		m.gen++
	}
	m.state = next
	change := Change{Event: event, Phase: phase, State: next.Clone(), Attempt: attempt}
	m.mu.Unlock()

	m.notify(ctx, change)
	return nil
}

// notify must be called with emitMu held.
func (m *Manager) notify(ctx context.Context, change Change) {
	m.lmu.Lock()
	listeners := make([]listenerEntry, len(m.listeners))
	copy(listeners, m.listeners)
	m.lmu.Unlock()

	for _, l := range listeners {
		l.fn(ctx, change)
	}

	_ = m.changes.Broadcast(ctx, broadcast.Message[Change]{Data: change})
}
