package domain

import "time"

// AdminUser mirrors the persisted representation in the admin_users table.
// Accounts are provisioned via the CLI and soft-deleted through IsActive.
type AdminUser struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedOn    time.Time
	IsActive     bool
}

// AdminNote is a free-text annotation an admin leaves against a requester.
type AdminNote struct {
	ID          int64
	Text        string
	CreatedOn   time.Time
	AuthorID    *int64
	RequesterID *int64
}
