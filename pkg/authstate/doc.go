// Package authstate maintains the single source of truth for "who is the
// current user and are they authenticated".
//
// A Store subscribes to identity provider events and reconciles its local
// snapshot against every one of them: a present session starts an
// asynchronous profile resolution (profile record and monthly usage fetched
// concurrently, with a bounded retry for not-yet-provisioned rows and a
// degraded placeholder fallback), an absent session clears everything.
// The snapshot is one immutable composite replaced atomically per
// transition, so readers never observe a half-updated state.
//
//	store := authstate.New(provider, profiles, usage,
//		authstate.WithLogger(log),
//	)
//	store.Init(ctx)
//	defer store.Close()
//
//	stop := store.OnChange(func(st authstate.State) {
//		// re-evaluate routes, re-render, etc.
//	})
//	defer stop()
//
// Auth operations (SignIn, SignUp, SignOut, SignInWithOAuth) delegate to
// the provider and surface failures as a user-facing Status; none of them
// propagate provider errors to the caller. Successful sign-in is observed
// through the event subscription, not through the SignIn call itself.
package authstate
