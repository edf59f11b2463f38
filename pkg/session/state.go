package session

import (
	"bytes"
	"encoding/json"
)

// Profile is the user payload returned by the identity service.
// It is stored and forwarded without being interpreted.
type Profile = json.RawMessage

// State is the session as seen by the host application.
// IsLoggedIn is true if and only if Token is set.
type State struct {
	Token      *string `json:"token"`
	User       Profile `json:"user"`
	Loading    bool    `json:"loading"`
	Error      *string `json:"error"`
	IsLoggedIn bool    `json:"isLoggedIn"`
}

// Anonymous returns the signed-out state.
func Anonymous() State {
	return State{}
}

// HasToken reports whether a bearer token is present.
func (s State) HasToken() bool {
	return s.Token != nil
}

// HasUser reports whether a non-null profile is attached.
func (s State) HasUser() bool {
	trimmed := bytes.TrimSpace(s.User)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// TokenValue returns the token or an empty string.
func (s State) TokenValue() string {
	if s.Token == nil {
		return ""
	}
	return *s.Token
}

// ErrorValue returns the error message or an empty string.
func (s State) ErrorValue() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Loading:    s.Loading,
		IsLoggedIn: s.IsLoggedIn,
		Token:      clonePtr(s.Token),
		Error:      clonePtr(s.Error),
	}
	if s.User != nil {
		out.User = append(Profile(nil), s.User...)
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Phase is the lifecycle position of the session.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseFailed         Phase = "failed"
)

// Event names a state change.
type Event string

const (
	EventSignInStarted   Event = "signin_started"
	EventSignInSucceeded Event = "signin_succeeded"
	EventSignInFailed    Event = "signin_failed"
	EventSignUpStarted   Event = "signup_started"
	EventSignUpSucceeded Event = "signup_succeeded"
	EventSignUpFailed    Event = "signup_failed"
	EventRehydrated      Event = "rehydrated"
	EventSignedOut       Event = "signed_out"
)

// Change is delivered to listeners after every mutation.
type Change struct {
	Event Event
	Phase Phase
	// State is a deep copy taken right after the mutation.
	State State
	// Attempt is the sign-in/sign-up attempt id, empty for other events.
	Attempt string
}
