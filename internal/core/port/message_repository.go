package port

import (
	"context"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// MessageFilter narrows message listings.
type MessageFilter struct {
	ThreadID int64
	Limit    int
	Offset   int
}

// MessageRepository exposes persistence behavior for messages.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) (*domain.Message, error)
	GetByID(ctx context.Context, id int64) (*domain.Message, error)
	List(ctx context.Context, filter MessageFilter) ([]domain.Message, error)
	Count(ctx context.Context, filter MessageFilter) (int, error)
	Delete(ctx context.Context, id int64) error
	ListByThread(ctx context.Context, threadID int64) ([]domain.Message, error)
}
