package session

import "errors"

var (
	// ErrSuperseded indicates a newer attempt or a sign-out started while this
	// attempt was in flight; its result was discarded.
	ErrSuperseded = errors.New("session.superseded")

	// ErrInvalidTransition indicates the event is not accepted in the current phase.
	ErrInvalidTransition = errors.New("session.invalid_transition")
)
