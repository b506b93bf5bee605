package usecase

import (
	"errors"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// ErrForbidden indicates the caller may not act on the thread.
var ErrForbidden = errors.New("forbidden")

// AccessGuard decides whether a caller may view or write to a thread.
type AccessGuard struct{}

// NewAccessGuard constructs an AccessGuard instance.
func NewAccessGuard() *AccessGuard {
	return &AccessGuard{}
}

// Authorize allows admins unconditionally and requesters only on their own
// thread.
func (g *AccessGuard) Authorize(isAdmin bool, sessionRequesterID int64, thread *domain.Thread) error {
	if isAdmin {
		return nil
	}
	if thread == nil {
		return ErrForbidden
	}
	if sessionRequesterID != 0 && sessionRequesterID == thread.RequesterID {
		return nil
	}
	return ErrForbidden
}
