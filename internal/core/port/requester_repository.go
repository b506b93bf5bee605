package port

import (
	"context"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// RequesterRepository exposes persistence behavior for requesters.
type RequesterRepository interface {
	Create(ctx context.Context, requester domain.Requester) (*domain.Requester, error)
	GetByID(ctx context.Context, id int64) (*domain.Requester, error)
	// GetByUsername performs a case-insensitive lookup.
	GetByUsername(ctx context.Context, username string) (*domain.Requester, error)
	// UpdateIdentityHashes overwrites the stored IP and fingerprint digests.
	UpdateIdentityHashes(ctx context.Context, id int64, ipHash, fpHash string) error
}
