package identity

import "context"

// OAuth provider identifiers.
const (
	OAuthProviderGoogle = "google"
	OAuthProviderGithub = "github"
)

// ProviderProfile is the subject profile resolved from an OAuth provider
// after the authorization code exchange.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}

// OAuthAdapter encapsulates provider-specific OAuth logic so the core flow
// stays provider-agnostic.
type OAuthAdapter interface {
	// ProviderID returns the provider identifier, e.g. "google".
	ProviderID() string

	// AuthURL builds the authorization URL carrying the CSRF state token.
	AuthURL(state string) (string, error)

	// ResolveProfile exchanges the authorization code for the subject's
	// profile information.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}
