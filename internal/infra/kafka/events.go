package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventThreadOpened   = "thread.opened"
	eventThreadFinished = "thread.finished"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	ThreadID  string            `json:"thread_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, threadID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		ThreadID:  strconv.FormatInt(threadID, 10),
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(envelope.ThreadID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishThreadOpened publishes support.thread.opened events.
func (p *EventPublisher) PublishThreadOpened(ctx context.Context, event domain.ThreadOpenedEvent) error {
	payload := struct {
		ThreadID    int64     `json:"thread_id"`
		ThreadKey   string    `json:"thread_key"`
		RequesterID int64     `json:"requester_id"`
		OpenedAt    time.Time `json:"opened_at"`
	}{
		ThreadID:    event.ThreadID,
		ThreadKey:   event.ThreadKey,
		RequesterID: event.RequesterID,
		OpenedAt:    event.OpenedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventThreadOpened, event.ThreadID, event.OpenedAt, payload)
}

// PublishThreadFinished publishes support.thread.finished events.
func (p *EventPublisher) PublishThreadFinished(ctx context.Context, event domain.ThreadFinishedEvent) error {
	payload := struct {
		ThreadID        int64     `json:"thread_id"`
		ThreadKey       string    `json:"thread_key"`
		RequesterID     int64     `json:"requester_id"`
		Status          string    `json:"status"`
		ProcessedByID   *int64    `json:"processed_by_id,omitempty"`
		MessagesDeleted bool      `json:"messages_deleted"`
		FinishedAt      time.Time `json:"finished_at"`
	}{
		ThreadID:        event.ThreadID,
		ThreadKey:       event.ThreadKey,
		RequesterID:     event.RequesterID,
		Status:          string(event.Status),
		ProcessedByID:   event.ProcessedByID,
		MessagesDeleted: event.MessagesDeleted,
		FinishedAt:      event.FinishedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventThreadFinished, event.ThreadID, event.FinishedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
