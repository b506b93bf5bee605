package port

import (
	"context"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// EventPublisher publishes thread lifecycle events to the message bus.
type EventPublisher interface {
	PublishThreadOpened(ctx context.Context, event domain.ThreadOpenedEvent) error
	PublishThreadFinished(ctx context.Context, event domain.ThreadFinishedEvent) error
}
