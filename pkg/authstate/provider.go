package authstate

import "context"

// EventHandler receives provider auth events. The session is nil for
// sign-out events.
type EventHandler func(kind EventKind, session *Session)

// IdentityProvider is the remote identity service the store reconciles
// against. Implementations live outside this package; see pkg/identity for
// a local provider and OAuth adapters.
type IdentityProvider interface {
	// CurrentSession returns the existing session restored from a prior
	// context or completed OAuth redirect, or nil when none exists.
	CurrentSession(ctx context.Context) (*Session, error)

	// SignInWithPassword performs a credential check. Success is observed
	// through the event subscription, not the return value.
	SignInWithPassword(ctx context.Context, email, password string) error

	// SignInWithOAuth starts a redirect-based flow and returns the
	// authorization URL the user agent should visit.
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)

	// SignUp registers a new account. The provider sends a confirmation
	// email linking back to redirectTo.
	SignUp(ctx context.Context, email, password, redirectTo string) error

	// SignOut invalidates the provider session.
	SignOut(ctx context.Context) error

	// Subscribe registers a handler for session state changes and returns
	// an unsubscribe function.
	Subscribe(handler EventHandler) (unsubscribe func())
}
