package authstate

import "context"

type stateContextKey struct{}

// WithState adds an auth snapshot to the context.
func WithState(ctx context.Context, state State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, state)
}

// FromContext retrieves the auth snapshot from the context.
func FromContext(ctx context.Context) (State, bool) {
	state, ok := ctx.Value(stateContextKey{}).(State)
	return state, ok
}

// UserIDFromContext returns the authenticated subject's user ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	state, ok := FromContext(ctx)
	if !ok || !state.IsAuthenticated() {
		return "", false
	}
	return state.Session.UserID.String(), true
}
