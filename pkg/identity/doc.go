// Package identity provides authstate.IdentityProvider implementations.
//
// LocalProvider is an in-process provider with bcrypt password accounts,
// an email confirmation round-trip, and OAuth sign-in through pluggable
// adapters (Google and GitHub adapters on golang.org/x/oauth2 are
// included). It emits signed_in/signed_out events to subscribers, which is
// what drives authstate reconciliation.
//
//	provider := identity.NewLocalProvider(identity.DefaultLocalConfig(),
//		identity.NewGoogleAdapter(googleCfg),
//	)
//
//	url, _ := provider.SignInWithOAuth(ctx, identity.OAuthProviderGoogle, "/dashboard")
//	// redirect the user agent to url; later:
//	target, err := provider.CompleteOAuth(ctx, code, state)
package identity
