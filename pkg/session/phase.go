package session

import (
	"context"

	"github.com/dmitrymomot/authkit/pkg/statemachine"
)

var allPhases = []Phase{PhaseAnonymous, PhaseAuthenticating, PhaseAuthenticated, PhaseFailed}

// hasToken inspects the state the transition would produce.
func hasToken(_ context.Context, _ Phase, _ Event, data any) bool {
	s, ok := data.(State)
	return ok && s.Token != nil
}

func newPhaseMachine() *statemachine.Machine[Phase, Event] {
	withToken := statemachine.WithGuard[Phase, Event](hasToken)

	return statemachine.New(PhaseAnonymous,
		// A new attempt may start at any time.
		statemachine.WithTransitionFrom(allPhases, PhaseAuthenticating, EventSignInStarted),
		statemachine.WithTransitionFrom(allPhases, PhaseAuthenticating, EventSignUpStarted),

		statemachine.WithTransition(PhaseAuthenticating, PhaseAuthenticated, EventSignInSucceeded, withToken),

		// Failures keep an existing session alive.
		statemachine.WithTransition(PhaseAuthenticating, PhaseAuthenticated, EventSignInFailed, withToken),
		statemachine.WithTransition(PhaseAuthenticating, PhaseFailed, EventSignInFailed),
		statemachine.WithTransition(PhaseAuthenticating, PhaseAuthenticated, EventSignUpFailed, withToken),
		statemachine.WithTransition(PhaseAuthenticating, PhaseFailed, EventSignUpFailed),

		// Registration is not a login.
		statemachine.WithTransition(PhaseAuthenticating, PhaseAuthenticated, EventSignUpSucceeded, withToken),
		statemachine.WithTransition(PhaseAuthenticating, PhaseAnonymous, EventSignUpSucceeded),

		statemachine.WithTransitionFrom([]Phase{PhaseAnonymous, PhaseFailed}, PhaseAuthenticated, EventRehydrated, withToken),

		statemachine.WithTransitionFrom(allPhases, PhaseAnonymous, EventSignedOut),
	)
}
