package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

const defaultSessionPrefix = "support:session"

// SessionRepository binds opaque requester session tokens to requester ids in
// Redis. Each session also carries its own CSRF token under a sibling key so
// both expire together.
type SessionRepository struct {
	client *red.Client
	prefix string
}

// NewSessionRepository wires Redis storage for requester sessions.
func NewSessionRepository(client *red.Client, keyPrefix string) *SessionRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}

	return &SessionRepository{client: client, prefix: prefix}
}

// Bind associates the session token with a requester id for the given TTL.
func (r *SessionRepository) Bind(ctx context.Context, token string, requesterID int64, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session token is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	if err := r.client.Set(ctx, r.key(token), requesterID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Lookup resolves the session token to the bound requester id.
func (r *SessionRepository) Lookup(ctx context.Context, token string) (int64, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("redis get session: %w", err)
	}

	requesterID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session requester id: %w", err)
	}

	return requesterID, nil
}

// SetCSRFToken stores the per-session CSRF token alongside the session.
func (r *SessionRepository) SetCSRFToken(ctx context.Context, token string, csrf string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session token is required")
	}
	if strings.TrimSpace(csrf) == "" {
		return errors.New("csrf token is required")
	}

	if err := r.client.Set(ctx, r.csrfKey(token), csrf, ttl).Err(); err != nil {
		return fmt.Errorf("redis set csrf token: %w", err)
	}

	return nil
}

// GetCSRFToken retrieves the CSRF token bound to the session.
func (r *SessionRepository) GetCSRFToken(ctx context.Context, token string) (string, error) {
	csrf, err := r.client.Get(ctx, r.csrfKey(token)).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("redis get csrf token: %w", err)
	}

	return csrf, nil
}

func (r *SessionRepository) key(token string) string {
	return fmt.Sprintf("%s:%s", r.prefix, token)
}

func (r *SessionRepository) csrfKey(token string) string {
	return fmt.Sprintf("%s:csrf:%s", r.prefix, token)
}

var _ port.SessionStore = (*SessionRepository)(nil)
