package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

func newTestThreadService(t *testing.T, threads *testThreadRepo, messages *testMessageRepo, publisher *testPublisher) *ThreadService {
	t.Helper()
	cfg := config.ThreadSettings{KeyLabel: "PINBAN", DefaultPerPage: 5, MaxPerPage: 25}
	return NewThreadService(cfg, threads, messages, publisher, zaptest.NewLogger(t))
}

func TestResolveCreatesUnknownRequester(t *testing.T) {
	var createdRequester domain.Requester
	requesters := &testRequesterRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*domain.Requester, error) {
			return nil, repository.ErrNotFound
		},
		createFn: func(_ context.Context, requester domain.Requester) (*domain.Requester, error) {
			createdRequester = requester
			stored := requester
			stored.ID = 7
			return &stored, nil
		},
	}
	threads := &testThreadRepo{
		keyExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		createWithSeedFn: func(_ context.Context, thread domain.Thread, seed domain.Message) (*domain.Thread, error) {
			if thread.RequesterID != 7 {
				t.Fatalf("expected thread for requester 7, got %d", thread.RequesterID)
			}
			if seed.Text != "please review my ban" {
				t.Fatalf("unexpected seed text %q", seed.Text)
			}
			stored := thread
			stored.ID = 11
			return &stored, nil
		},
	}
	publisher := &testPublisher{}
	svc := NewIdentityService(requesters, threads, newTestThreadService(t, threads, &testMessageRepo{}, publisher))

	result, err := svc.Resolve(context.Background(), ResolveInput{
		Username:     "banned_player",
		Fingerprint:  "fp-raw",
		FirstMessage: "please review my ban",
		IP:           "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if !result.Created {
		t.Fatal("expected created=true for unknown username")
	}
	if result.Thread.ID != 11 {
		t.Fatalf("expected thread id 11, got %d", result.Thread.ID)
	}
	if createdRequester.FPHash != security.HashFingerprint("fp-raw") {
		t.Fatal("expected fingerprint digest stored on new requester")
	}
	if createdRequester.IPHash != security.HashIP("203.0.113.9") {
		t.Fatal("expected ip digest stored on new requester")
	}
	if len(publisher.opened) != 1 {
		t.Fatalf("expected one thread opened event, got %d", len(publisher.opened))
	}
}

func TestResolveContinuesActiveThreadOnFingerprintMatch(t *testing.T) {
	fpHash := security.HashFingerprint("fp-raw")
	requesters := &testRequesterRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*domain.Requester, error) {
			return &domain.Requester{ID: 3, Username: "banned_player", FPHash: fpHash}, nil
		},
	}
	threads := &testThreadRepo{
		getActiveByRequesterFn: func(_ context.Context, requesterID int64) (*domain.Thread, error) {
			return &domain.Thread{ID: 21, Key: "PINBAN-ABC-1234", Status: domain.ThreadStatusActive, RequesterID: requesterID}, nil
		},
	}
	svc := NewIdentityService(requesters, threads, newTestThreadService(t, threads, &testMessageRepo{}, &testPublisher{}))

	result, err := svc.Resolve(context.Background(), ResolveInput{
		Username:     "banned_player",
		Fingerprint:  "fp-raw",
		FirstMessage: "hello again",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if result.Created {
		t.Fatal("expected created=false when continuing an active thread")
	}
	if result.Thread.ID != 21 {
		t.Fatalf("expected thread 21, got %d", result.Thread.ID)
	}
}

func TestResolveContinuesActiveThreadOnSessionMatch(t *testing.T) {
	requesters := &testRequesterRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*domain.Requester, error) {
			return &domain.Requester{ID: 3, Username: "banned_player", FPHash: "different"}, nil
		},
	}
	threads := &testThreadRepo{
		getActiveByRequesterFn: func(_ context.Context, requesterID int64) (*domain.Thread, error) {
			return &domain.Thread{ID: 21, Status: domain.ThreadStatusActive, RequesterID: requesterID}, nil
		},
	}
	svc := NewIdentityService(requesters, threads, newTestThreadService(t, threads, &testMessageRepo{}, &testPublisher{}))

	result, err := svc.Resolve(context.Background(), ResolveInput{
		Username:           "banned_player",
		Fingerprint:        "new-browser",
		FirstMessage:       "hello",
		SessionRequesterID: 3,
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if result.Created {
		t.Fatal("expected created=false on session match")
	}
}

func TestResolveRejectsHijackAttempt(t *testing.T) {
	requesters := &testRequesterRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*domain.Requester, error) {
			return &domain.Requester{ID: 3, Username: "banned_player", FPHash: security.HashFingerprint("original")}, nil
		},
	}
	threads := &testThreadRepo{
		getActiveByRequesterFn: func(_ context.Context, requesterID int64) (*domain.Thread, error) {
			return &domain.Thread{ID: 21, Status: domain.ThreadStatusActive, RequesterID: requesterID}, nil
		},
	}
	svc := NewIdentityService(requesters, threads, newTestThreadService(t, threads, &testMessageRepo{}, &testPublisher{}))

	_, err := svc.Resolve(context.Background(), ResolveInput{
		Username:     "banned_player",
		Fingerprint:  "attacker-fp",
		FirstMessage: "let me in",
	})
	if !errors.Is(err, ErrIdentityMismatch) {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
}

func TestResolveReopensWithFreshHashes(t *testing.T) {
	var newIPHash, newFPHash string
	requesters := &testRequesterRepo{
		getByUsernameFn: func(_ context.Context, _ string) (*domain.Requester, error) {
			return &domain.Requester{ID: 3, Username: "banned_player", FPHash: security.HashFingerprint("old")}, nil
		},
		updateHashesFn: func(_ context.Context, id int64, ipHash, fpHash string) error {
			if id != 3 {
				t.Fatalf("expected update for requester 3, got %d", id)
			}
			newIPHash, newFPHash = ipHash, fpHash
			return nil
		},
	}
	threads := &testThreadRepo{
		getActiveByRequesterFn: func(_ context.Context, _ int64) (*domain.Thread, error) {
			return nil, repository.ErrNotFound
		},
		keyExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		createWithSeedFn: func(_ context.Context, thread domain.Thread, _ domain.Message) (*domain.Thread, error) {
			stored := thread
			stored.ID = 31
			return &stored, nil
		},
	}
	svc := NewIdentityService(requesters, threads, newTestThreadService(t, threads, &testMessageRepo{}, &testPublisher{}))

	result, err := svc.Resolve(context.Background(), ResolveInput{
		Username:     "banned_player",
		Fingerprint:  "new-device",
		FirstMessage: "second appeal",
		IP:           "198.51.100.4",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if !result.Created {
		t.Fatal("expected created=true when no active thread exists")
	}
	if newFPHash != security.HashFingerprint("new-device") {
		t.Fatal("expected fingerprint digest to be overwritten")
	}
	if newIPHash != security.HashIP("198.51.100.4") {
		t.Fatal("expected ip digest to be overwritten")
	}
}

func TestResolveValidatesInput(t *testing.T) {
	svc := NewIdentityService(&testRequesterRepo{}, &testThreadRepo{}, nil)

	if _, err := svc.Resolve(context.Background(), ResolveInput{Fingerprint: "fp", FirstMessage: "msg"}); err == nil {
		t.Fatal("expected error for missing username")
	}
	if _, err := svc.Resolve(context.Background(), ResolveInput{Username: "u", FirstMessage: "msg"}); err == nil {
		t.Fatal("expected error for missing fingerprint")
	}
	if _, err := svc.Resolve(context.Background(), ResolveInput{Username: "u", Fingerprint: "fp"}); err == nil {
		t.Fatal("expected error for missing first message")
	}
}
