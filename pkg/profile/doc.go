// Package profile defines the user profile and monthly usage stores consumed
// by the auth state reconciler.
//
// A profile row is provisioned asynchronously after signup, so GetProfile
// returns ErrProfileNotFound for a short window on fresh accounts; callers
// retry with a bounded backoff and fall back to a degraded placeholder.
//
// Three implementations are provided: PostgresStore (pgx, with embedded
// goose migrations for the profiles and usage_tracking tables), RedisUsage
// (monthly counters on Redis), and MemoryStore for tests and development.
package profile
