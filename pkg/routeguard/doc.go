// Package routeguard gates route access on authentication state.
//
// A Guard observes an authstate.Store and keeps a two-phase machine:
// Waiting while the auth snapshot is loading (bounded by WaitTimeout, after
// which it proceeds with whatever state is available), Settled once a
// decision is safe. For every (state, path) pair it yields one of three
// decisions: render the content, redirect (authenticated users away from
// the landing page, unauthenticated users away from protected paths), or
// wait behind a placeholder so protected content never flashes before a
// redirect.
//
//	guard := routeguard.New(store, routeguard.WithLogger(log))
//	defer guard.Close()
//
//	http.ListenAndServe(":8080", guard.Routes(app))
//
// The policy itself is exposed as the pure Evaluate function for callers
// that track elapsed wait time themselves.
package routeguard
