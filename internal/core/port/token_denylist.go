package port

import (
	"context"
	"time"
)

// TokenDenylist revokes admin access tokens by JTI until they would have
// expired anyway.
type TokenDenylist interface {
	Deny(ctx context.Context, jti string, ttl time.Duration) error
	IsDenied(ctx context.Context, jti string) (bool, error)
}
