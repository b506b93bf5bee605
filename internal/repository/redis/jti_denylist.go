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

const defaultJTIDenylistPrefix = "support:jti_denylist"

// JTIDenylistRepository marks revoked admin token identifiers in Redis. Each
// entry carries a TTL matching the token's remaining lifetime, so the denylist
// never outgrows the set of tokens that could still be replayed.
type JTIDenylistRepository struct {
	client *red.Client
	prefix string
}

// NewJTIDenylistRepository wires Redis storage for revoked token identifiers.
func NewJTIDenylistRepository(client *red.Client, keyPrefix string) *JTIDenylistRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultJTIDenylistPrefix
	}

	return &JTIDenylistRepository{client: client, prefix: prefix}
}

// Deny records the JTI as revoked until its natural expiry.
func (r *JTIDenylistRepository) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return errors.New("jti is required")
	}
	if ttl <= 0 {
		// Token already expired, nothing to deny.
		return nil
	}

	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set denied jti: %w", err)
	}

	return nil
}

// IsDenied reports whether the JTI has been revoked.
func (r *JTIDenylistRepository) IsDenied(ctx context.Context, jti string) (bool, error) {
	count, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists denied jti: %w", err)
	}

	return count > 0, nil
}

func (r *JTIDenylistRepository) key(jti string) string {
	return fmt.Sprintf("%s:%s", r.prefix, jti)
}

var _ port.TokenDenylist = (*JTIDenylistRepository)(nil)
