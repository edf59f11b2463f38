package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects during a transition. Returning an error prevents the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

type transition[S, E comparable] struct {
	to      S
	guards  []Guard[S, E] // all must pass
	actions []Action[S, E]
}

// Machine is a finite state machine over comparable state and event types.
// Transitions are looked up as [from][event] and evaluated in registration
// order; the first one whose guards all pass wins, which allows branching
// on runtime data. All methods are safe for concurrent use.
type Machine[S, E comparable] struct {
	initial     S
	current     S
	transitions map[S]map[E][]transition[S, E]
	mu          sync.RWMutex
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AddTransition registers a transition. Several transitions may share
// the same from/event pair when they are distinguished by guards.
func (m *Machine[S, E]) AddTransition(from, to S, event E, guards []Guard[S, E], actions []Action[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[E][]transition[S, E])
	}
	m.transitions[from][event] = append(m.transitions[from][event], transition[S, E]{
		to:      to,
		guards:  guards,
		actions: actions,
	})
}

// Fire applies event to the current state and returns the resulting state.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.match(ctx, event, data)
	if err != nil {
		return m.current, err
	}

	for _, action := range t.actions {
		if err := action(ctx, m.current, t.to, event, data); err != nil {
			return m.current, fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.to
	return m.current, nil
}

// CanFire reports whether event would be accepted in the current state.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.match(ctx, event, data)
	return err == nil
}

// Reset returns the machine to its initial state.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// match must be called with the lock held.
func (m *Machine[S, E]) match(ctx context.Context, event E, data any) (*transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
	}

	for i := range candidates {
		if m.guardsPass(ctx, candidates[i].guards, event, data) {
			return &candidates[i], nil
		}
	}

	return nil, &ErrTransitionRejected{State: fmt.Sprint(m.current), Event: fmt.Sprint(event)}
}

func (m *Machine[S, E]) guardsPass(ctx context.Context, guards []Guard[S, E], event E, data any) bool {
	for _, guard := range guards {
		if !guard(ctx, m.current, event, data) {
			return false
		}
	}
	return true
}
