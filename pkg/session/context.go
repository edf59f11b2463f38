package session

import "context"

type stateContextKey struct{}

// WithState adds a state snapshot to the context.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, s)
}

// StateFromContext retrieves a state snapshot from the context.
func StateFromContext(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(stateContextKey{}).(State)
	return s, ok
}
