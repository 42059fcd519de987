package authstate

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithConfig sets custom reconciliation configuration.
func WithConfig(cfg Config) Option {
	return func(s *Store) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger used for reconcile and provider diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxRetries sets the profile fetch retry bound.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.cfg.MaxRetries = n
		}
	}
}

// WithRetryBackoff sets the fixed delay between profile fetch attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.cfg.RetryBackoff = d
		}
	}
}
