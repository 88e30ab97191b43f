package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// SignInLimiter counts failed sign-in attempts per username in Redis.
// Key format: signin:fail:<lowercased username>
// A username is blocked once it reaches maxAttempts failures; the counter
// expires window after the most recent failure.
type SignInLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewSignInLimiter creates a SignInLimiter wrapping the given Redis client.
func NewSignInLimiter(client *redis.Client, maxAttempts int, window time.Duration) *SignInLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &SignInLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether username is still below the failure threshold.
func (l *SignInLimiter) Allow(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("signin limiter check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (l *SignInLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("signin limiter record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful sign-in.
func (l *SignInLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *SignInLimiter) key(username string) string {
	return "signin:fail:" + strings.ToLower(username)
}
