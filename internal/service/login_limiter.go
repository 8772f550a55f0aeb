package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per email inside a fixed window.
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
	prefix      string
}

// NewLoginLimiter returns a limiter backed by client. A nil client yields a limiter that
// never blocks.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window, prefix: "login:fail:"}
}

func (l *LoginLimiter) key(email string) string {
	return l.prefix + email
}

// Allow reports whether email may still attempt a login.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	count, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, fmt.Errorf("read login attempts: %w", err)
	}
	return count < l.maxAttempts, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("set login failure window: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter for email.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
