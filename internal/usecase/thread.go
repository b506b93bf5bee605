package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
)

var (
	// ErrInvalidStatus indicates an unknown thread status was requested.
	ErrInvalidStatus = errors.New("invalid thread status")
	// ErrKeyExhausted indicates key generation kept colliding with stored keys.
	ErrKeyExhausted = errors.New("thread key space exhausted")
)

const keyGenMaxAttempts = 10

// ThreadService manages the conversation thread lifecycle.
type ThreadService struct {
	cfg       config.ThreadSettings
	threads   port.ThreadRepository
	messages  port.MessageRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewThreadService constructs a ThreadService instance.
func NewThreadService(
	cfg config.ThreadSettings,
	threads port.ThreadRepository,
	messages port.MessageRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *ThreadService {
	return &ThreadService{
		cfg:       cfg,
		threads:   threads,
		messages:  messages,
		publisher: publisher,
		logger:    logger,
	}
}

// OpenThread creates an ACTIVE thread for the requester together with its seed
// message. The human-readable key is regenerated on collision.
func (s *ThreadService) OpenThread(ctx context.Context, requesterID int64, seedText string) (*domain.Thread, error) {
	if requesterID == 0 {
		return nil, fmt.Errorf("requester id is required")
	}
	if seedText == "" {
		return nil, fmt.Errorf("seed message is required")
	}

	key, err := s.generateKey(ctx)
	if err != nil {
		return nil, err
	}

	thread := domain.Thread{
		Key:         key,
		Status:      domain.ThreadStatusActive,
		RequesterID: requesterID,
	}
	seed := domain.Message{
		Text:        seedText,
		RequesterID: &requesterID,
	}

	created, err := s.threads.CreateWithSeed(ctx, thread, seed)
	if err != nil {
		return nil, err
	}

	event := domain.ThreadOpenedEvent{
		EventID:     uuid.NewString(),
		ThreadID:    created.ID,
		ThreadKey:   created.Key,
		RequesterID: created.RequesterID,
		OpenedAt:    created.CreatedOn,
	}
	if err := s.publisher.PublishThreadOpened(ctx, event); err != nil {
		s.logger.Warn("publish thread opened event failed",
			zap.Int64("thread_id", created.ID),
			zap.Error(err),
		)
	}

	return created, nil
}

// GetActive returns the thread only while it is still active.
func (s *ThreadService) GetActive(ctx context.Context, threadID int64) (*domain.Thread, error) {
	return s.threads.GetActiveByID(ctx, threadID)
}

// Transition moves the thread into the requested status. Terminal statuses
// record the reviewing admin and purge the thread's messages unless
// suppressed; a thread already in a terminal status may be transitioned
// again, so repeating a decision is harmless.
func (s *ThreadService) Transition(ctx context.Context, threadID int64, status domain.ThreadStatus, suppressDeletion bool, processedByID *int64) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return err
	}

	if status == domain.ThreadStatusActive {
		if thread.Status != domain.ThreadStatusActive {
			return ErrInvalidStatus
		}
		return s.threads.UpdateStatus(ctx, thread.ID, status)
	}

	var review *port.ThreadReview
	if processedByID != nil {
		review = &port.ThreadReview{
			RequesterID: thread.RequesterID,
			AdminID:     *processedByID,
			Approved:    status == domain.ThreadStatusApproved,
		}
	}

	deleteMessages := !suppressDeletion
	if err := s.threads.Finish(ctx, thread.ID, status, deleteMessages, review); err != nil {
		return err
	}

	event := domain.ThreadFinishedEvent{
		EventID:         uuid.NewString(),
		ThreadID:        thread.ID,
		ThreadKey:       thread.Key,
		RequesterID:     thread.RequesterID,
		Status:          status,
		ProcessedByID:   processedByID,
		MessagesDeleted: deleteMessages,
		FinishedAt:      time.Now().UTC(),
	}
	if err := s.publisher.PublishThreadFinished(ctx, event); err != nil {
		s.logger.Warn("publish thread finished event failed",
			zap.Int64("thread_id", thread.ID),
			zap.Error(err),
		)
	}

	return nil
}

// SweepOldThreads transitions every ACTIVE thread whose last activity predates
// the age threshold to UNRESOLVED. The first failure aborts the sweep; the
// returned count covers threads finished before the failure.
func (s *ThreadService) SweepOldThreads(ctx context.Context, age time.Duration) (int, error) {
	if age <= 0 {
		age = s.cfg.SweepAge
	}
	if age <= 0 {
		return 0, fmt.Errorf("sweep age must be positive")
	}

	cutoff := time.Now().UTC().Add(-age)
	stale, err := s.threads.ListStaleActive(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale threads: %w", err)
	}

	swept := 0
	for _, thread := range stale {
		if err := s.Transition(ctx, thread.ID, domain.ThreadStatusUnresolved, false, nil); err != nil {
			return swept, fmt.Errorf("sweep thread %s: %w", thread.Key, err)
		}
		swept++
	}

	return swept, nil
}

// generateKey produces a LABEL-AAA-0000 key that does not collide with any
// stored thread key.
func (s *ThreadService) generateKey(ctx context.Context) (string, error) {
	label := s.cfg.KeyLabel
	if label == "" {
		label = "PINBAN"
	}

	for attempt := 0; attempt < keyGenMaxAttempts; attempt++ {
		buf := make([]byte, 7)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate thread key: %w", err)
		}

		letters := make([]byte, 3)
		for i := 0; i < 3; i++ {
			letters[i] = 'A' + buf[i]%26
		}
		digits := make([]byte, 4)
		for i := 0; i < 4; i++ {
			digits[i] = '0' + buf[3+i]%10
		}

		key := fmt.Sprintf("%s-%s-%s", label, letters, digits)

		exists, err := s.threads.KeyExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check thread key: %w", err)
		}
		if !exists {
			return key, nil
		}
	}

	return "", ErrKeyExhausted
}
