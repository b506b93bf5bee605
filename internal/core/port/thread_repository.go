package port

import (
	"context"
	"time"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// ThreadFilter narrows thread listings.
type ThreadFilter struct {
	Key         string
	RequesterID int64
	Limit       int
	Offset      int
}

// ThreadReview identifies the admin who processed a thread so Finish can
// record the outcome on the requester row.
type ThreadReview struct {
	RequesterID int64
	AdminID     int64
	Approved    bool
}

// ThreadRepository exposes persistence behavior for conversation threads.
// Multi-row mutations are atomic at this layer: a failure leaves no partial
// state behind.
type ThreadRepository interface {
	// CreateWithSeed persists a new thread together with its first message in
	// a single transaction and returns the stored thread.
	CreateWithSeed(ctx context.Context, thread domain.Thread, seed domain.Message) (*domain.Thread, error)
	GetByID(ctx context.Context, id int64) (*domain.Thread, error)
	// GetActiveByID returns the thread only when its status is active.
	GetActiveByID(ctx context.Context, id int64) (*domain.Thread, error)
	GetActiveByRequester(ctx context.Context, requesterID int64) (*domain.Thread, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, filter ThreadFilter) ([]domain.Thread, error)
	Count(ctx context.Context, filter ThreadFilter) (int, error)
	// UpdateStatus persists a status change and refreshes last_activity_on.
	UpdateStatus(ctx context.Context, id int64, status domain.ThreadStatus) error
	// Finish transitions the thread to a terminal status. A non-nil review
	// records the processing admin on the requester row, and deleteMessages
	// purges the thread's messages. All of it runs in one transaction so a
	// failure leaves the thread, requester, and messages untouched.
	Finish(ctx context.Context, id int64, status domain.ThreadStatus, deleteMessages bool, review *ThreadReview) error
	// ListStaleActive returns active threads whose last activity predates the
	// cutoff, oldest first.
	ListStaleActive(ctx context.Context, cutoff time.Time) ([]domain.Thread, error)
}
