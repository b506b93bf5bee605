package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
)

const defaultLoginAttemptPrefix = "support:login_attempts"

// LoginAttemptRepository counts failed admin login attempts per client IP.
// The counter expires on its own, so restrictions lift without intervention
// unless an operator clears them earlier.
type LoginAttemptRepository struct {
	client *red.Client
	prefix string
}

// NewLoginAttemptRepository wires Redis storage for login attempt counters.
func NewLoginAttemptRepository(client *red.Client, keyPrefix string) *LoginAttemptRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultLoginAttemptPrefix
	}

	return &LoginAttemptRepository{client: client, prefix: prefix}
}

// Increment bumps the counter for the IP and returns the new value. The TTL is
// applied only when the counter is first created so the restriction window is
// anchored to the first failure.
func (r *LoginAttemptRepository) Increment(ctx context.Context, ip string, ttl time.Duration) (int64, error) {
	if strings.TrimSpace(ip) == "" {
		return 0, errors.New("ip is required")
	}

	key := r.key(ip)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr login attempts: %w", err)
	}

	if count == 1 && ttl > 0 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, fmt.Errorf("redis expire login attempts: %w", err)
		}
	}

	return count, nil
}

// Count returns the current attempt count for the IP, zero when absent.
func (r *LoginAttemptRepository) Count(ctx context.Context, ip string) (int64, error) {
	count, err := r.client.Get(ctx, r.key(ip)).Int64()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get login attempts: %w", err)
	}

	return count, nil
}

// Reset removes the counter, lifting any restriction on the IP.
func (r *LoginAttemptRepository) Reset(ctx context.Context, ip string) error {
	if err := r.client.Del(ctx, r.key(ip)).Err(); err != nil {
		return fmt.Errorf("redis del login attempts: %w", err)
	}

	return nil
}

func (r *LoginAttemptRepository) key(ip string) string {
	return fmt.Sprintf("%s:%s", r.prefix, ip)
}

var _ port.LoginAttemptStore = (*LoginAttemptRepository)(nil)
