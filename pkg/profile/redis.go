package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the Redis usage counters.
type RedisConfig struct {
	ConnectionURL  string        `env:"USAGE_REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"USAGE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"USAGE_REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"USAGE_REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}

// ConnectRedis establishes a Redis client, retrying until the server
// responds to ping or the retry budget is exhausted.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConfig, err)
	}

	for remaining := cfg.RetryAttempts; remaining > 0; remaining-- {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrStoreNotReady
}

// RedisUsage implements UsageStore and UsageRecorder on Redis counters.
// Counters live under usage:{user_id}:{year_month} and expire after the
// retention period so stale months clean themselves up.
type RedisUsage struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisUsage creates a Redis-backed usage counter store.
// Retention controls how long a month's counter is kept after its last
// write; zero disables expiry.
func NewRedisUsage(client *redis.Client, retention time.Duration) *RedisUsage {
	return &RedisUsage{client: client, retention: retention}
}

func usageKey(userID uuid.UUID, yearMonth string) string {
	return fmt.Sprintf("usage:%s:%s", userID, yearMonth)
}

// MonthlyUsage returns the counter for the user and period.
func (s *RedisUsage) MonthlyUsage(ctx context.Context, userID uuid.UUID, yearMonth string) (int64, bool, error) {
	count, err := s.client.Get(ctx, usageKey(userID, yearMonth)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return count, true, nil
}

// IncrementUsage adds delta to the counter and refreshes its expiry.
func (s *RedisUsage) IncrementUsage(ctx context.Context, userID uuid.UUID, yearMonth string, delta int64) (int64, error) {
	key := usageKey(userID, yearMonth)

	count, err := s.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, err
	}

	if s.retention > 0 {
		_ = s.client.Expire(ctx, key, s.retention).Err()
	}

	return count, nil
}

var _ UsageRecorder = (*RedisUsage)(nil)
