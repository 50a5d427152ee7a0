// Package limiter throttles failed logins per email address.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTooManyAttempts = errors.New("too many login attempts")
	ErrUnavailable     = errors.New("login limiter unavailable")
)

type LoginLimiter interface {
	Allow(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// Noop is used when no Redis is configured.
type Noop struct{}

func (Noop) Allow(context.Context, string) error         { return nil }
func (Noop) RecordFailure(context.Context, string) error { return nil }
func (Noop) Reset(context.Context, string) error         { return nil }

// RedisLimiter counts failures in a key that expires window after the first
// failure, so the lockout lifts on its own.
type RedisLimiter struct {
	redis       redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

func (l *RedisLimiter) key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *RedisLimiter) Allow(ctx context.Context, email string) error {
	count, err := l.redis.Get(ctx, l.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count >= l.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
