package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
)

// ThreadDetail is a thread together with its ordered message timeline.
type ThreadDetail struct {
	Thread   *domain.Thread
	Messages []domain.Message
}

// MessageService handles conversation reads and message submission.
type MessageService struct {
	threads  port.ThreadRepository
	messages port.MessageRepository
	guard    *AccessGuard
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(threads port.ThreadRepository, messages port.MessageRepository, guard *AccessGuard) *MessageService {
	return &MessageService{
		threads:  threads,
		messages: messages,
		guard:    guard,
	}
}

// GetThreadDetail returns an active thread with its messages, guard-checked.
func (s *MessageService) GetThreadDetail(ctx context.Context, threadID int64, isAdmin bool, sessionRequesterID int64) (*ThreadDetail, error) {
	thread, err := s.threads.GetActiveByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(isAdmin, sessionRequesterID, thread); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByThread(ctx, thread.ID)
	if err != nil {
		return nil, fmt.Errorf("list thread messages: %w", err)
	}

	return &ThreadDetail{Thread: thread, Messages: messages}, nil
}

// PostRequesterMessage appends a requester-authored message to their active
// thread and refreshes the thread's activity timestamp.
func (s *MessageService) PostRequesterMessage(ctx context.Context, threadID, sessionRequesterID int64, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text is required")
	}

	thread, err := s.threads.GetActiveByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(false, sessionRequesterID, thread); err != nil {
		return nil, err
	}

	message, err := s.messages.Create(ctx, domain.Message{
		Text:        text,
		RequesterID: &sessionRequesterID,
		ThreadID:    thread.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := s.threads.UpdateStatus(ctx, thread.ID, domain.ThreadStatusActive); err != nil {
		return nil, fmt.Errorf("refresh thread activity: %w", err)
	}

	return message, nil
}

// PostAdminMessage appends an admin-authored message to an active thread.
func (s *MessageService) PostAdminMessage(ctx context.Context, threadID, adminID int64, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text is required")
	}

	thread, err := s.threads.GetActiveByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	message, err := s.messages.Create(ctx, domain.Message{
		Text:        text,
		AdminUserID: &adminID,
		ThreadID:    thread.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := s.threads.UpdateStatus(ctx, thread.ID, domain.ThreadStatusActive); err != nil {
		return nil, fmt.Errorf("refresh thread activity: %w", err)
	}

	return message, nil
}

// ListMessages returns messages matching the filter plus the total count.
func (s *MessageService) ListMessages(ctx context.Context, filter port.MessageFilter) ([]domain.Message, int, error) {
	messages, err := s.messages.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	total, err := s.messages.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	return messages, total, nil
}

// GetMessage returns a single message by id.
func (s *MessageService) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	return s.messages.GetByID(ctx, id)
}

// DeleteMessage removes a single message.
func (s *MessageService) DeleteMessage(ctx context.Context, id int64) error {
	return s.messages.Delete(ctx, id)
}

// ListThreads returns threads matching the filter plus the total count.
func (s *MessageService) ListThreads(ctx context.Context, filter port.ThreadFilter) ([]domain.Thread, int, error) {
	threads, err := s.threads.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list threads: %w", err)
	}

	total, err := s.threads.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count threads: %w", err)
	}

	return threads, total, nil
}
