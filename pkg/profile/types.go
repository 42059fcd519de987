package profile

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents a subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
	PlanTeam Plan = "team"
)

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanTeam:
		return true
	}
	return false
}

// Record is the stored profile row for a user. Rows are provisioned by a
// backend trigger after signup, so a freshly created user may not have one
// yet; callers should treat ErrProfileNotFound as transient.
type Record struct {
	UserID    uuid.UUID
	Name      string
	Plan      Plan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// YearMonth formats t as the usage-tracking period key, e.g. "2026-08".
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// CurrentYearMonth returns the period key for the current calendar month.
func CurrentYearMonth() string {
	return YearMonth(time.Now())
}
