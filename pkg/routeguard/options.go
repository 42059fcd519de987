package routeguard

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring the Guard.
type Option func(*Guard)

// WithConfig sets custom routing policy.
func WithConfig(cfg Config) Option {
	return func(g *Guard) {
		g.cfg = cfg
	}
}

// WithLogger sets the logger used for timeout warnings.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithWaitTimeout overrides the bound on how long the gate waits for auth
// state to settle.
func WithWaitTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.cfg.WaitTimeout = d
		}
	}
}

// WithPlaceholder sets the handler served while the gate is waiting.
func WithPlaceholder(h http.Handler) Option {
	return func(g *Guard) {
		if h != nil {
			g.placeholder = h
		}
	}
}

// WithPublicRoutes replaces the public route set.
func WithPublicRoutes(paths ...string) Option {
	return func(g *Guard) {
		if len(paths) > 0 {
			g.cfg.PublicRoutes = paths
		}
	}
}
