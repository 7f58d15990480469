package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	MaxLoginAttempts int
	Window           time.Duration
}

// Limiter enforces a per-origin attempt budget for the login endpoint
// using Redis counters.
//
// Failure of the backing store is reported as [ErrRedisUnavailable] so the
// caller can fail closed; the limiter never silently admits on error.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

func loginOriginKey(origin string) string {
	return "lo:" + origin
}

// Admit records one login attempt for the origin and reports whether it is
// within the attempt budget for the current window. The increment and the
// comparison use the Redis counter as the single source of truth, so
// concurrent callers sharing an origin cannot race past the threshold.
func (l *Limiter) Admit(ctx context.Context, origin string) error {
	count, err := l.incrementWithTTL(ctx, loginOriginKey(origin), l.config.Window)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	return nil
}

// Reset clears the attempt counter for an origin. Used by back-office
// tooling to unblock a legitimate origin before the window elapses.
func (l *Limiter) Reset(ctx context.Context, origin string) error {
	if err := l.redis.Del(ctx, loginOriginKey(origin)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Attempts returns the current attempt counter for an origin. Missing keys
// return zero.
func (l *Limiter) Attempts(ctx context.Context, origin string) (int, error) {
	count, err := l.redis.Get(ctx, loginOriginKey(origin)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
