package authstate

import "time"

// Config holds reconciliation settings.
type Config struct {
	// MaxRetries is how many times a not-yet-provisioned profile fetch is
	// retried before falling back to a degraded placeholder.
	MaxRetries int `env:"AUTH_PROFILE_MAX_RETRIES" envDefault:"2"`

	// RetryBackoff is the fixed delay between profile fetch attempts.
	RetryBackoff time.Duration `env:"AUTH_PROFILE_RETRY_BACKOFF" envDefault:"500ms"`

	// SignUpRedirectTo is the confirmation-email link target passed to the
	// provider on sign-up.
	SignUpRedirectTo string `env:"AUTH_SIGNUP_REDIRECT_TO" envDefault:"/"`
}

// DefaultConfig returns the default reconciliation settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       2,
		RetryBackoff:     500 * time.Millisecond,
		SignUpRedirectTo: "/",
	}
}
