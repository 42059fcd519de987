package profile

import "errors"

var (
	// ErrProfileNotFound indicates the profile row does not exist yet.
	// This is expected shortly after signup while backend provisioning runs.
	ErrProfileNotFound = errors.New("profile: not found")

	// ErrInvalidRecord indicates a nil or incomplete record was provided.
	ErrInvalidRecord = errors.New("profile: invalid record")

	// ErrFailedToParseConfig indicates the connection configuration is invalid.
	ErrFailedToParseConfig = errors.New("profile: failed to parse connection config")

	// ErrStoreNotReady indicates the backing store could not be reached
	// within the configured retry budget.
	ErrStoreNotReady = errors.New("profile: store not ready")

	// ErrFailedToApplyMigrations wraps schema migration failures.
	ErrFailedToApplyMigrations = errors.New("profile: failed to apply migrations")
)
