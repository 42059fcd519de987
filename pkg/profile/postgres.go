package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds connection settings for the Postgres-backed stores.
type PostgresConfig struct {
	ConnectionString string        `env:"PROFILE_DATABASE_URL,required"`
	MaxOpenConns     int32         `env:"PROFILE_DB_MAX_OPEN_CONNS" envDefault:"10"`
	RetryAttempts    int           `env:"PROFILE_DB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PROFILE_DB_RETRY_INTERVAL" envDefault:"3s"`
}

// Connect establishes a pgx connection pool with linear backoff between
// attempts so that service restarts tolerate a database that is still
// coming up.
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = cfg.MaxOpenConns
	}

	for i := 0; i < cfg.RetryAttempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrStoreNotReady
}

// PostgresStore implements Store and UsageStore on top of a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed profile store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetProfile returns the profile row for the user.
func (s *PostgresStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Record, error) {
	const q = `SELECT user_id, name, plan, created_at, updated_at
		FROM profiles WHERE user_id = $1`

	var r Record
	err := s.pool.QueryRow(ctx, q, userID).Scan(&r.UserID, &r.Name, &r.Plan, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &r, nil
}

// UpsertProfile creates or replaces the profile row. Used by provisioning
// hooks and tests; the reconcile path itself only reads.
func (s *PostgresStore) UpsertProfile(ctx context.Context, r *Record) error {
	if r == nil || r.UserID == uuid.Nil {
		return ErrInvalidRecord
	}

	const q = `INSERT INTO profiles (user_id, name, plan, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET name = $2, plan = $3, updated_at = now()`

	_, err := s.pool.Exec(ctx, q, r.UserID, r.Name, r.Plan)
	return err
}

// MonthlyUsage returns the usage counter for the user and period.
func (s *PostgresStore) MonthlyUsage(ctx context.Context, userID uuid.UUID, yearMonth string) (int64, bool, error) {
	const q = `SELECT tasks_created FROM usage_tracking
		WHERE user_id = $1 AND year_month = $2`

	var count int64
	err := s.pool.QueryRow(ctx, q, userID, yearMonth).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}

	return count, true, nil
}

// IncrementUsage adds delta to the counter, creating the row if needed.
func (s *PostgresStore) IncrementUsage(ctx context.Context, userID uuid.UUID, yearMonth string, delta int64) (int64, error) {
	const q = `INSERT INTO usage_tracking (user_id, year_month, tasks_created)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, year_month)
		DO UPDATE SET tasks_created = usage_tracking.tasks_created + $3
		RETURNING tasks_created`

	var count int64
	if err := s.pool.QueryRow(ctx, q, userID, yearMonth, delta).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ Store         = (*PostgresStore)(nil)
	_ UsageRecorder = (*PostgresStore)(nil)
)
