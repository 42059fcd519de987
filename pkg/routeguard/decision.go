package routeguard

import (
	"time"

	"github.com/dmitrymomot/authgate/pkg/authstate"
)

// DecisionKind classifies what the gate wants the caller to do.
type DecisionKind string

const (
	// DecisionRender means the requested content is safe to show.
	DecisionRender DecisionKind = "render"
	// DecisionRedirect means the user agent must be sent to Decision.Path.
	DecisionRedirect DecisionKind = "redirect"
	// DecisionWait means auth state has not settled; show a placeholder,
	// never the protected content.
	DecisionWait DecisionKind = "wait"
)

// Decision is the gate's verdict for one (state, path) pair.
type Decision struct {
	Kind DecisionKind
	Path string // redirect target, set only for DecisionRedirect
}

// Evaluate is the pure route-access policy. elapsed is how long the gate
// has already been waiting for the loading state to settle; once it reaches
// cfg.WaitTimeout the decision proceeds with whatever state is available.
func Evaluate(cfg Config, st authstate.State, path string, elapsed time.Duration) Decision {
	if st.IsLoading && elapsed < cfg.WaitTimeout {
		return Decision{Kind: DecisionWait}
	}

	if st.IsAuthenticated() && path == cfg.DefaultPublicRoute {
		return Decision{Kind: DecisionRedirect, Path: cfg.DefaultAuthenticatedRoute}
	}

	if !st.IsAuthenticated() && !cfg.IsPublic(path) {
		return Decision{Kind: DecisionRedirect, Path: cfg.DefaultPublicRoute}
	}

	return Decision{Kind: DecisionRender}
}
