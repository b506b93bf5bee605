package port

import (
	"context"
	"time"
)

// SessionStore binds an opaque browser session token to a requester id and
// holds the per-session CSRF token. Unbinding happens only through expiry.
type SessionStore interface {
	Bind(ctx context.Context, token string, requesterID int64, ttl time.Duration) error
	// Lookup returns the bound requester id, or repository.ErrNotFound when
	// the token is unknown or expired.
	Lookup(ctx context.Context, token string) (int64, error)
	SetCSRFToken(ctx context.Context, token string, csrf string, ttl time.Duration) error
	GetCSRFToken(ctx context.Context, token string) (string, error)
}
