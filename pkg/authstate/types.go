package authstate

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authgate/pkg/profile"
)

// EventKind identifies a provider auth event. Unknown kinds are treated as
// a generic state refresh rather than ignored, so new provider events are
// handled conservatively.
type EventKind string

const (
	EventInitialSession EventKind = "initial_session"
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
)

// Session is the provider-issued proof of authentication for a subject.
// The tokens are opaque credentials; this package never interprets them.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Profile is the locally-owned projection of the authenticated subject.
// It is replaced wholesale on every session change and is nil whenever no
// session exists.
type Profile struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	Plan         profile.Plan
	TasksCreated int64

	degraded bool
}

// Degraded reports whether this profile is a placeholder built locally
// because the profile store could not be reached.
func (p *Profile) Degraded() bool {
	return p != nil && p.degraded
}

// StatusKind distinguishes user-facing error messages from informational ones.
type StatusKind string

const (
	StatusError StatusKind = "error"
	StatusInfo  StatusKind = "info"
)

// Status is a user-facing message produced by an auth operation, e.g. a
// failed sign-in or the post-signup confirmation notice.
type Status struct {
	Kind    StatusKind
	Message string
}

// State is the authoritative auth snapshot. It is one immutable composite
// value replaced atomically per transition, never mutated field by field,
// so readers can never observe an inconsistent intermediate.
type State struct {
	Session   *Session
	Profile   *Profile
	IsLoading bool
	Status    *Status
}

// IsAuthenticated reports whether a provider session is present.
func (s State) IsAuthenticated() bool {
	return s.Session != nil
}

// degradedProfile builds the minimal placeholder used when profile
// enrichment fails: display name from the email local part, free tier, and
// whatever usage count was resolved (zero if the usage query failed too).
func degradedProfile(userID uuid.UUID, email string, tasksCreated int64) *Profile {
	name, _, _ := strings.Cut(email, "@")
	return &Profile{
		UserID:       userID,
		Email:        email,
		Name:         name,
		Plan:         profile.PlanFree,
		TasksCreated: tasksCreated,
		degraded:     true,
	}
}
