package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, threadID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Int64("thread_id", threadID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishThreadOpened logs support.thread.opened events.
func (p *StubPublisher) PublishThreadOpened(_ context.Context, event domain.ThreadOpenedEvent) error {
	payload := map[string]any{
		"thread_id":    event.ThreadID,
		"thread_key":   event.ThreadKey,
		"requester_id": event.RequesterID,
		"opened_at":    event.OpenedAt,
	}
	p.logEvent(eventThreadOpened, event.ThreadID, event.OpenedAt, payload)
	return nil
}

// PublishThreadFinished logs support.thread.finished events.
func (p *StubPublisher) PublishThreadFinished(_ context.Context, event domain.ThreadFinishedEvent) error {
	payload := map[string]any{
		"thread_id":        event.ThreadID,
		"thread_key":       event.ThreadKey,
		"requester_id":     event.RequesterID,
		"status":           event.Status,
		"processed_by_id":  event.ProcessedByID,
		"messages_deleted": event.MessagesDeleted,
		"finished_at":      event.FinishedAt,
	}
	p.logEvent(eventThreadFinished, event.ThreadID, event.FinishedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
