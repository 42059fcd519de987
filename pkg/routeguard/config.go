package routeguard

import (
	"slices"
	"time"
)

// Config holds routing policy for the gate.
type Config struct {
	// PublicRoutes are paths reachable without an active session.
	PublicRoutes []string `env:"GUARD_PUBLIC_ROUTES" envSeparator:"," envDefault:"/"`

	// DefaultPublicRoute is where unauthenticated users are sent.
	DefaultPublicRoute string `env:"GUARD_DEFAULT_PUBLIC_ROUTE" envDefault:"/"`

	// DefaultAuthenticatedRoute is where authenticated users land when they
	// hit the default public route.
	DefaultAuthenticatedRoute string `env:"GUARD_DEFAULT_AUTHENTICATED_ROUTE" envDefault:"/dashboard"`

	// WaitTimeout bounds how long the gate waits for auth state to settle
	// before proceeding with whatever state is available.
	WaitTimeout time.Duration `env:"GUARD_WAIT_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns the default gate policy.
func DefaultConfig() Config {
	return Config{
		PublicRoutes:              []string{"/"},
		DefaultPublicRoute:        "/",
		DefaultAuthenticatedRoute: "/dashboard",
		WaitTimeout:               5 * time.Second,
	}
}

// IsPublic reports whether the path is reachable without a session.
func (c Config) IsPublic(path string) bool {
	return slices.Contains(c.PublicRoutes, path)
}
