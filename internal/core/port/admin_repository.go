package port

import (
	"context"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
)

// AdminUserFilter narrows admin account listings.
type AdminUserFilter struct {
	Limit  int
	Offset int
}

// AdminUserRepository exposes persistence behavior for admin accounts.
// Lookups exclude soft-deleted accounts unless noted otherwise.
type AdminUserRepository interface {
	Create(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	// GetByUsername performs a case-insensitive lookup among active accounts.
	GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	// GetByEmail performs a case-insensitive lookup regardless of the active flag.
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context, filter AdminUserFilter) ([]domain.AdminUser, error)
	Count(ctx context.Context, filter AdminUserFilter) (int, error)
	// Deactivate marks the account inactive (soft delete).
	Deactivate(ctx context.Context, id int64) error
}

// AdminNoteFilter narrows note listings.
type AdminNoteFilter struct {
	RequesterID int64
	Limit       int
	Offset      int
}

// AdminNoteRepository exposes persistence behavior for admin notes.
type AdminNoteRepository interface {
	Create(ctx context.Context, note domain.AdminNote) (*domain.AdminNote, error)
	GetByID(ctx context.Context, id int64) (*domain.AdminNote, error)
	List(ctx context.Context, filter AdminNoteFilter) ([]domain.AdminNote, error)
	Count(ctx context.Context, filter AdminNoteFilter) (int, error)
	UpdateText(ctx context.Context, id int64, text string) (*domain.AdminNote, error)
	Delete(ctx context.Context, id int64) error
}
