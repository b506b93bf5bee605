package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

// ErrIdentityMismatch indicates the caller claimed a username whose active
// thread belongs to a different browser.
var ErrIdentityMismatch = errors.New("identity mismatch")

// ResolveInput carries everything the resolver needs to identify a requester.
type ResolveInput struct {
	Username     string
	Fingerprint  string
	FirstMessage string
	IP           string
	// SessionRequesterID is the requester currently bound to the caller's
	// session, zero when the session is anonymous.
	SessionRequesterID int64
}

// ResolveResult reports the requester and thread the caller ended up with.
type ResolveResult struct {
	Requester *domain.Requester
	Thread    *domain.Thread
	// Created is true when a new thread was opened during this resolve.
	Created bool
}

// IdentityService resolves anonymous requesters by username and fingerprint.
type IdentityService struct {
	requesters port.RequesterRepository
	threads    port.ThreadRepository
	threadSvc  *ThreadService
}

// NewIdentityService constructs an IdentityService instance.
func NewIdentityService(requesters port.RequesterRepository, threads port.ThreadRepository, threadSvc *ThreadService) *IdentityService {
	return &IdentityService{
		requesters: requesters,
		threads:    threads,
		threadSvc:  threadSvc,
	}
}

// Resolve implements the trust-on-first-use identity flow. An unknown username
// gets a fresh requester and thread. A known username with an ACTIVE thread is
// only let back in when the session or the fingerprint digest matches; on
// mismatch nothing is mutated. A known username without an ACTIVE thread has
// its identity digests overwritten and a new thread opened.
func (s *IdentityService) Resolve(ctx context.Context, input ResolveInput) (*ResolveResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(input.Fingerprint) == "" {
		return nil, fmt.Errorf("fingerprint is required")
	}
	if strings.TrimSpace(input.FirstMessage) == "" {
		return nil, fmt.Errorf("first message is required")
	}

	ipHash := security.HashIP(input.IP)
	fpHash := security.HashFingerprint(input.Fingerprint)

	requester, err := s.requesters.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.createRequester(ctx, username, ipHash, fpHash, input.FirstMessage)
		}
		return nil, fmt.Errorf("lookup requester: %w", err)
	}

	thread, err := s.threads.GetActiveByRequester(ctx, requester.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.reopenRequester(ctx, requester, ipHash, fpHash, input.FirstMessage)
		}
		return nil, fmt.Errorf("lookup active thread: %w", err)
	}

	if input.SessionRequesterID != requester.ID && requester.FPHash != fpHash {
		return nil, ErrIdentityMismatch
	}

	return &ResolveResult{Requester: requester, Thread: thread, Created: false}, nil
}

func (s *IdentityService) createRequester(ctx context.Context, username, ipHash, fpHash, seedText string) (*ResolveResult, error) {
	requester, err := s.requesters.Create(ctx, domain.Requester{
		Username: username,
		IPHash:   ipHash,
		FPHash:   fpHash,
	})
	if err != nil {
		return nil, err
	}

	thread, err := s.threadSvc.OpenThread(ctx, requester.ID, seedText)
	if err != nil {
		return nil, err
	}

	return &ResolveResult{Requester: requester, Thread: thread, Created: true}, nil
}

func (s *IdentityService) reopenRequester(ctx context.Context, requester *domain.Requester, ipHash, fpHash, seedText string) (*ResolveResult, error) {
	if err := s.requesters.UpdateIdentityHashes(ctx, requester.ID, ipHash, fpHash); err != nil {
		return nil, fmt.Errorf("update identity hashes: %w", err)
	}
	requester.IPHash = ipHash
	requester.FPHash = fpHash

	thread, err := s.threadSvc.OpenThread(ctx, requester.ID, seedText)
	if err != nil {
		return nil, err
	}

	return &ResolveResult{Requester: requester, Thread: thread, Created: true}, nil
}
