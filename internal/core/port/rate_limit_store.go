package port

import (
	"context"
	"time"
)

// RateLimitStore records request attempts for sliding-window rate limiting.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// LoginAttemptStore counts failed admin login attempts per client IP.
type LoginAttemptStore interface {
	// Increment bumps the counter for the IP and returns the new value. The
	// TTL is applied when the counter is first created.
	Increment(ctx context.Context, ip string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, ip string) (int64, error)
	// Reset removes the counter, lifting any restriction on the IP.
	Reset(ctx context.Context, ip string) error
}
