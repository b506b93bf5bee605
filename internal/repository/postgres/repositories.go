package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Requesters *RequesterRepository
	Threads    *ThreadRepository
	Messages   *MessageRepository
	AdminUsers *AdminUserRepository
	AdminNotes *AdminNoteRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Requesters: NewRequesterRepository(pool),
		Threads:    NewThreadRepository(pool),
		Messages:   NewMessageRepository(pool),
		AdminUsers: NewAdminUserRepository(pool),
		AdminNotes: NewAdminNoteRepository(pool),
	}
}
