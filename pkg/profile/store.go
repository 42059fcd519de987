package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store defines read access to profile records.
type Store interface {
	// GetProfile returns the profile record for the user.
	// Returns ErrProfileNotFound when the row has not been provisioned yet.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Record, error)
}

// UsageStore defines read access to monthly usage counters.
type UsageStore interface {
	// MonthlyUsage returns the usage counter for the user and period
	// (formatted as "2006-01"). The boolean reports whether a counter
	// exists for that period; a missing counter is not an error.
	MonthlyUsage(ctx context.Context, userID uuid.UUID, yearMonth string) (int64, bool, error)
}

// UsageRecorder is an optional interface for usage stores that support
// incrementing the counter as work is performed.
type UsageRecorder interface {
	UsageStore
	// IncrementUsage adds delta to the counter for the user and period,
	// creating it if absent, and returns the new value.
	IncrementUsage(ctx context.Context, userID uuid.UUID, yearMonth string, delta int64) (int64, error)
}
