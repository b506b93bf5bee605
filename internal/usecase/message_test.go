package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

func activeThread(id, requesterID int64) *domain.Thread {
	return &domain.Thread{ID: id, Key: "PINBAN-QQQ-0009", Status: domain.ThreadStatusActive, RequesterID: requesterID}
}

func TestGetThreadDetailForOwner(t *testing.T) {
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, id int64) (*domain.Thread, error) {
			return activeThread(id, 4), nil
		},
	}
	messages := &testMessageRepo{
		listByThreadFn: func(_ context.Context, threadID int64) ([]domain.Message, error) {
			return []domain.Message{{ID: 1, Text: "hello", ThreadID: threadID}}, nil
		},
	}
	svc := NewMessageService(threads, messages, NewAccessGuard())

	detail, err := svc.GetThreadDetail(context.Background(), 8, false, 4)
	if err != nil {
		t.Fatalf("GetThreadDetail returned error: %v", err)
	}
	if len(detail.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(detail.Messages))
	}
}

func TestGetThreadDetailForbiddenForStranger(t *testing.T) {
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, id int64) (*domain.Thread, error) {
			return activeThread(id, 4), nil
		},
	}
	svc := NewMessageService(threads, &testMessageRepo{}, NewAccessGuard())

	_, err := svc.GetThreadDetail(context.Background(), 8, false, 99)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGetThreadDetailAdminBypassesGuard(t *testing.T) {
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, id int64) (*domain.Thread, error) {
			return activeThread(id, 4), nil
		},
	}
	messages := &testMessageRepo{
		listByThreadFn: func(_ context.Context, _ int64) ([]domain.Message, error) {
			return nil, nil
		},
	}
	svc := NewMessageService(threads, messages, NewAccessGuard())

	if _, err := svc.GetThreadDetail(context.Background(), 8, true, 0); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
}

func TestPostRequesterMessageRefreshesActivity(t *testing.T) {
	refreshed := false
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, id int64) (*domain.Thread, error) {
			return activeThread(id, 4), nil
		},
		updateStatusFn: func(_ context.Context, _ int64, status domain.ThreadStatus) error {
			if status != domain.ThreadStatusActive {
				t.Fatalf("expected active refresh, got %q", status)
			}
			refreshed = true
			return nil
		},
	}
	messages := &testMessageRepo{
		createFn: func(_ context.Context, message domain.Message) (*domain.Message, error) {
			if message.RequesterID == nil || *message.RequesterID != 4 {
				t.Fatal("expected requester authorship")
			}
			if message.AdminUserID != nil {
				t.Fatal("expected no admin authorship")
			}
			stored := message
			stored.ID = 77
			return &stored, nil
		},
	}
	svc := NewMessageService(threads, messages, NewAccessGuard())

	message, err := svc.PostRequesterMessage(context.Background(), 8, 4, "any update?")
	if err != nil {
		t.Fatalf("PostRequesterMessage returned error: %v", err)
	}
	if message.ID != 77 {
		t.Fatalf("expected message id 77, got %d", message.ID)
	}
	if !refreshed {
		t.Fatal("expected thread activity refresh")
	}
}

func TestPostRequesterMessageMissingThread(t *testing.T) {
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, _ int64) (*domain.Thread, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewMessageService(threads, &testMessageRepo{}, NewAccessGuard())

	_, err := svc.PostRequesterMessage(context.Background(), 404, 4, "hello")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostAdminMessageSetsAdminAuthor(t *testing.T) {
	threads := &testThreadRepo{
		getActiveByIDFn: func(_ context.Context, id int64) (*domain.Thread, error) {
			return activeThread(id, 4), nil
		},
		updateStatusFn: func(_ context.Context, _ int64, _ domain.ThreadStatus) error { return nil },
	}
	messages := &testMessageRepo{
		createFn: func(_ context.Context, message domain.Message) (*domain.Message, error) {
			if message.AdminUserID == nil || *message.AdminUserID != 12 {
				t.Fatal("expected admin authorship")
			}
			if message.RequesterID != nil {
				t.Fatal("expected no requester authorship")
			}
			stored := message
			stored.ID = 78
			return &stored, nil
		},
	}
	svc := NewMessageService(threads, messages, NewAccessGuard())

	if _, err := svc.PostAdminMessage(context.Background(), 8, 12, "we are reviewing"); err != nil {
		t.Fatalf("PostAdminMessage returned error: %v", err)
	}
}

func TestAccessGuard(t *testing.T) {
	guard := NewAccessGuard()
	thread := activeThread(1, 4)

	if err := guard.Authorize(true, 0, thread); err != nil {
		t.Fatalf("expected admin allowed, got %v", err)
	}
	if err := guard.Authorize(false, 4, thread); err != nil {
		t.Fatalf("expected owner allowed, got %v", err)
	}
	if err := guard.Authorize(false, 5, thread); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := guard.Authorize(false, 0, thread); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
}
