package identity

import (
	"errors"
	"fmt"
)

// Kind classifies identity failures.
type Kind string

const (
	// KindTransport: the request never reached the service or no response came back.
	KindTransport Kind = "transport"
	// KindRejected: the service answered with a non-success status.
	KindRejected Kind = "rejected"
	// KindMalformed: success status but the body could not be used.
	KindMalformed Kind = "malformed"
	// KindProfileFetch: authentication succeeded but the profile call failed.
	KindProfileFetch Kind = "profile_fetch"
)

// Sentinels for errors.Is matching against *Error kinds.
var (
	ErrTransport         = errors.New("identity.transport")
	ErrRejected          = errors.New("identity.rejected")
	ErrMalformedResponse = errors.New("identity.malformed_response")
	ErrProfileFetch      = errors.New("identity.profile_fetch_failed")

	ErrInvalidBaseURL = errors.New("identity.invalid_base_url")
)

// Default user-facing messages used when the service gives no reason.
const (
	MsgSignInFailed  = "Sign in failed"
	MsgGetUserFailed = "Failed to get user data"
	MsgSignUpFailed  = "Sign up failed"
)

// Error is returned by every Client operation.
type Error struct {
	Op      string // signin, getuser, signup
	Kind    Kind
	Status  int    // HTTP status, zero for transport failures
	Message string // user-facing text
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("identity: %s %s (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("identity: %s %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so callers can write errors.Is(err, identity.ErrRejected).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	case ErrProfileFetch:
		return e.Kind == KindProfileFetch
	}
	return false
}

// Message extracts the user-facing text from err.
// Non-identity errors yield fallback, or err.Error() when fallback is empty.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
