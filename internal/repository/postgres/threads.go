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

var threadColumns = []string{
	"id",
	"key",
	"status",
	"created_on",
	"last_activity_on",
	"requester_id",
}

// ThreadRepository implements port.ThreadRepository using PostgreSQL.
type ThreadRepository struct {
	exec    txStarter
	builder squirrel.StatementBuilderType
}

// NewThreadRepository wires a PostgreSQL-backed thread repository.
func NewThreadRepository(exec txStarter) *ThreadRepository {
	return &ThreadRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateWithSeed persists the thread together with its first message in a
// single transaction. A racing second active thread for the same requester
// surfaces as repository.ErrConflict via the partial unique index.
func (r *ThreadRepository) CreateWithSeed(ctx context.Context, thread domain.Thread, seed domain.Message) (*domain.Thread, error) {
	now := time.Now().UTC()
	if thread.CreatedOn.IsZero() {
		thread.CreatedOn = now
	}
	if thread.LastActivityOn.IsZero() {
		thread.LastActivityOn = thread.CreatedOn
	}
	if seed.CreatedOn.IsZero() {
		seed.CreatedOn = now
	}

	stored := thread
	err := withinTx(ctx, r.exec, func(tx pgx.Tx) error {
		insertThread, args, err := r.builder.Insert("support.threads").
			Columns("key", "status", "created_on", "last_activity_on", "requester_id").
			Values(thread.Key, thread.Status, thread.CreatedOn, thread.LastActivityOn, thread.RequesterID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert thread sql: %w", err)
		}

		if err := tx.QueryRow(ctx, insertThread, args...).Scan(&stored.ID); err != nil {
			return mapExecError(fmt.Errorf("insert thread: %w", err))
		}

		insertSeed, args, err := r.builder.Insert("support.messages").
			Columns("text", "created_on", "admin_user_id", "requester_id", "thread_id").
			Values(seed.Text, seed.CreatedOn, seed.AdminUserID, seed.RequesterID, stored.ID).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert seed message sql: %w", err)
		}

		if _, err := tx.Exec(ctx, insertSeed, args...); err != nil {
			return fmt.Errorf("insert seed message: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetByID retrieves a thread regardless of status.
func (r *ThreadRepository) GetByID(ctx context.Context, id int64) (*domain.Thread, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetActiveByID retrieves the thread only when its status is active.
func (r *ThreadRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Thread, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "status": domain.ThreadStatusActive})
}

// GetActiveByRequester returns the requester's single active thread, if any.
func (r *ThreadRepository) GetActiveByRequester(ctx context.Context, requesterID int64) (*domain.Thread, error) {
	return r.getOne(ctx, squirrel.Eq{"requester_id": requesterID, "status": domain.ThreadStatusActive})
}

// KeyExists reports whether any thread already carries the provided key.
func (r *ThreadRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("support.threads").
		Where(squirrel.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build key exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check thread key: %w", err)
	}

	return true, nil
}

// List returns threads matching the filter, newest first.
func (r *ThreadRepository) List(ctx context.Context, filter port.ThreadFilter) ([]domain.Thread, error) {
	query := r.builder.Select(threadColumns...).
		From("support.threads").
		OrderBy("created_on DESC")

	if filter.Key != "" {
		query = query.Where(squirrel.Eq{"key": filter.Key})
	}
	if filter.RequesterID != 0 {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list threads sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	threads := make([]domain.Thread, 0)
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(
			&thread.ID,
			&thread.Key,
			&thread.Status,
			&thread.CreatedOn,
			&thread.LastActivityOn,
			&thread.RequesterID,
		); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	return threads, nil
}

// Count returns the total number of threads matching the filter.
func (r *ThreadRepository) Count(ctx context.Context, filter port.ThreadFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("support.threads")

	if filter.Key != "" {
		query = query.Where(squirrel.Eq{"key": filter.Key})
	}
	if filter.RequesterID != 0 {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count threads sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan threads count: %w", err)
	}

	return int(count), nil
}

// UpdateStatus persists a status change and refreshes last_activity_on.
func (r *ThreadRepository) UpdateStatus(ctx context.Context, id int64, status domain.ThreadStatus) error {
	stmt, args, err := r.builder.Update("support.threads").
		Set("status", status).
		Set("last_activity_on", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update thread status sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return mapExecError(fmt.Errorf("update thread status: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Finish moves the thread into a terminal status, records the reviewing admin
// when a review is supplied, and optionally purges the thread's messages, all
// inside one transaction.
func (r *ThreadRepository) Finish(ctx context.Context, id int64, status domain.ThreadStatus, deleteMessages bool, review *port.ThreadReview) error {
	return withinTx(ctx, r.exec, func(tx pgx.Tx) error {
		updateStmt, args, err := r.builder.Update("support.threads").
			Set("status", status).
			Set("last_activity_on", time.Now().UTC()).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build finish thread sql: %w", err)
		}

		ct, err := tx.Exec(ctx, updateStmt, args...)
		if err != nil {
			return fmt.Errorf("finish thread: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if review != nil {
			reviewQuery := r.builder.Update("support.requesters").
				Set("last_reviewed_by_id", review.AdminID).
				Where(squirrel.Eq{"id": review.RequesterID})
			if review.Approved {
				reviewQuery = reviewQuery.Set("was_approved_before", true)
			}

			reviewStmt, args, err := reviewQuery.ToSql()
			if err != nil {
				return fmt.Errorf("build record review sql: %w", err)
			}

			ct, err := tx.Exec(ctx, reviewStmt, args...)
			if err != nil {
				return fmt.Errorf("record thread review: %w", err)
			}
			if ct.RowsAffected() == 0 {
				return repository.ErrNotFound
			}
		}

		if !deleteMessages {
			return nil
		}

		deleteStmt, args, err := r.builder.Delete("support.messages").
			Where(squirrel.Eq{"thread_id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build purge messages sql: %w", err)
		}

		if _, err := tx.Exec(ctx, deleteStmt, args...); err != nil {
			return fmt.Errorf("purge thread messages: %w", err)
		}

		return nil
	})
}

// ListStaleActive returns active threads whose last activity predates the
// cutoff, oldest first.
func (r *ThreadRepository) ListStaleActive(ctx context.Context, cutoff time.Time) ([]domain.Thread, error) {
	stmt, args, err := r.builder.Select(threadColumns...).
		From("support.threads").
		Where(squirrel.Eq{"status": domain.ThreadStatusActive}).
		Where(squirrel.Lt{"last_activity_on": cutoff}).
		OrderBy("last_activity_on ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stale threads sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query stale threads: %w", err)
	}
	defer rows.Close()

	threads := make([]domain.Thread, 0)
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(
			&thread.ID,
			&thread.Key,
			&thread.Status,
			&thread.CreatedOn,
			&thread.LastActivityOn,
			&thread.RequesterID,
		); err != nil {
			return nil, fmt.Errorf("scan stale thread: %w", err)
		}
		threads = append(threads, thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale threads: %w", err)
	}

	return threads, nil
}

func (r *ThreadRepository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Thread, error) {
	stmt, args, err := r.builder.Select(threadColumns...).
		From("support.threads").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select thread sql: %w", err)
	}

	var thread domain.Thread
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&thread.ID,
		&thread.Key,
		&thread.Status,
		&thread.CreatedOn,
		&thread.LastActivityOn,
		&thread.RequesterID,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan thread: %w", err)
	}

	return &thread, nil
}

var _ port.ThreadRepository = (*ThreadRepository)(nil)
