// Package statemachine implements a small generic finite state machine.
//
// States and events are any comparable types, usually string-based enums:
//
//	type Phase string
//	type Event string
//
//	m := statemachine.New[Phase, Event]("idle",
//	    statemachine.WithTransition[Phase, Event]("idle", "running", "start"),
//	    statemachine.WithTransition("running", "idle", "stop",
//	        statemachine.WithGuard[Phase, Event](canStop),
//	    ),
//	)
//	next, err := m.Fire(ctx, "start", nil)
//
// Several transitions may be registered for one from/event pair; they are
// tried in registration order and the first whose guards all pass is taken.
// Actions run before the state changes and abort the transition on error.
//
// Fire returns *ErrNoTransitionAvailable when nothing is registered and
// *ErrTransitionRejected when guards blocked every candidate; use
// IsNoTransitionAvailableError and IsTransitionRejectedError to tell them apart.
package statemachine
