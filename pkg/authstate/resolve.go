package authstate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authgate/pkg/async"
	"github.com/dmitrymomot/authgate/pkg/profile"
)

// resolveProfile fetches the profile record and current-month usage counter
// for the subject and installs the result. The two queries are issued
// concurrently and both complete before an attempt ends.
//
// A not-yet-provisioned profile (ErrProfileNotFound) is retried up to
// MaxRetries times with a fixed backoff; this tolerates the race between
// session creation and asynchronous backend profile provisioning. Any other
// profile error, or exhausted retries, installs a degraded placeholder
// instead: enrichment failures never invalidate the session. Every terminal
// branch clears IsLoading exactly once.
func (s *Store) resolveProfile(ctx context.Context, userID uuid.UUID, email string) {
	yearMonth := profile.CurrentYearMonth()
	attempts := s.cfg.MaxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		recF := async.Go(ctx, func(ctx context.Context) (*profile.Record, error) {
			return s.profiles.GetProfile(ctx, userID)
		})
		usageF := async.Go(ctx, func(ctx context.Context) (int64, error) {
			if s.usage == nil {
				return 0, nil
			}
			count, _, err := s.usage.MonthlyUsage(ctx, userID, yearMonth)
			return count, err
		})

		rec, err := recF.Await()
		count, usageErr := usageF.Await()
		if usageErr != nil {
			s.log.WarnContext(ctx, "usage lookup failed", "user_id", userID, "error", usageErr)
			count = 0
		}

		if err == nil {
			s.installProfile(&Profile{
				UserID:       rec.UserID,
				Email:        email,
				Name:         rec.Name,
				Plan:         rec.Plan,
				TasksCreated: count,
			})
			return
		}

		if errors.Is(err, profile.ErrProfileNotFound) && attempt < attempts-1 {
			s.log.DebugContext(ctx, "profile not provisioned yet, retrying",
				"user_id", userID, "attempt", attempt+1, "backoff", s.cfg.RetryBackoff)

			select {
			case <-ctx.Done():
				s.installProfile(degradedProfile(userID, email, count))
				return
			case <-time.After(s.cfg.RetryBackoff):
			}
			continue
		}

		// Authentication stays valid even when enrichment fails; no fatal
		// status is recorded.
		s.log.ErrorContext(ctx, "profile fetch failed, using placeholder",
			"user_id", userID, "error", err)
		s.installProfile(degradedProfile(userID, email, count))
		return
	}
}

// installProfile replaces the profile wholesale and ends the loading phase.
// A stale resolution completing late simply overwrites current state;
// fetches are keyed by the subject in effect at call time.
func (s *Store) installProfile(p *Profile) {
	s.swap(func(st State) State {
		st.Profile = p
		st.IsLoading = false
		return st
	})
}
