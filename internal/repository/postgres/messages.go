package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

var messageColumns = []string{
	"id",
	"text",
	"created_on",
	"admin_user_id",
	"requester_id",
	"thread_id",
}

// MessageRepository implements port.MessageRepository using PostgreSQL.
type MessageRepository struct {
	exec    txStarter
	builder squirrel.StatementBuilderType
}

// NewMessageRepository wires a PostgreSQL-backed message repository.
func NewMessageRepository(exec txStarter) *MessageRepository {
	return &MessageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new message row.
func (r *MessageRepository) Create(ctx context.Context, message domain.Message) (*domain.Message, error) {
	createdOn := message.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("support.messages").
		Columns("text", "created_on", "admin_user_id", "requester_id", "thread_id").
		Values(message.Text, createdOn, message.AdminUserID, message.RequesterID, message.ThreadID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert message sql: %w", err)
	}

	stored := message
	stored.CreatedOn = createdOn
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&stored.ID); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	return &stored, nil
}

// GetByID retrieves a message by identifier.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	stmt, args, err := r.builder.Select(messageColumns...).
		From("support.messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select message sql: %w", err)
	}

	var message domain.Message
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&message.ID,
		&message.Text,
		&message.CreatedOn,
		&message.AdminUserID,
		&message.RequesterID,
		&message.ThreadID,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}

	return &message, nil
}

// List returns messages matching the filter, oldest first.
func (r *MessageRepository) List(ctx context.Context, filter port.MessageFilter) ([]domain.Message, error) {
	query := r.builder.Select(messageColumns...).
		From("support.messages").
		OrderBy("created_on ASC")

	if filter.ThreadID != 0 {
		query = query.Where(squirrel.Eq{"thread_id": filter.ThreadID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

// Count returns the total number of messages matching the filter.
func (r *MessageRepository) Count(ctx context.Context, filter port.MessageFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("support.messages")

	if filter.ThreadID != 0 {
		query = query.Where(squirrel.Eq{"thread_id": filter.ThreadID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count messages sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan messages count: %w", err)
	}

	return int(count), nil
}

// Delete removes a single message.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("support.messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete message sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByThread returns the full ordered timeline of a thread.
func (r *MessageRepository) ListByThread(ctx context.Context, threadID int64) ([]domain.Message, error) {
	stmt, args, err := r.builder.Select(messageColumns...).
		From("support.messages").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("created_on ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list thread messages sql: %w", err)
	}

	return r.queryMany(ctx, stmt, args)
}

func (r *MessageRepository) queryMany(ctx context.Context, stmt string, args []any) ([]domain.Message, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var message domain.Message
		if err := rows.Scan(
			&message.ID,
			&message.Text,
			&message.CreatedOn,
			&message.AdminUserID,
			&message.RequesterID,
			&message.ThreadID,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

var _ port.MessageRepository = (*MessageRepository)(nil)
