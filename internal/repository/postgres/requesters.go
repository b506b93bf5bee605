package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

var requesterColumns = []string{
	"id",
	"username",
	"created_on",
	"ip_hash",
	"fp_hash",
	"was_approved_before",
	"last_reviewed_by_id",
}

// RequesterRepository implements port.RequesterRepository using PostgreSQL.
type RequesterRepository struct {
	exec    txStarter
	builder squirrel.StatementBuilderType
}

// NewRequesterRepository wires a PostgreSQL-backed requester repository.
func NewRequesterRepository(exec txStarter) *RequesterRepository {
	return &RequesterRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new requester row. A racing insert for the same username
// surfaces as repository.ErrConflict via the unique index on lower(username).
func (r *RequesterRepository) Create(ctx context.Context, requester domain.Requester) (*domain.Requester, error) {
	createdOn := requester.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("support.requesters").
		Columns("username", "created_on", "ip_hash", "fp_hash", "was_approved_before", "last_reviewed_by_id").
		Values(requester.Username, createdOn, requester.IPHash, requester.FPHash, requester.WasApprovedBefore, requester.LastReviewedByID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert requester sql: %w", err)
	}

	stored := requester
	stored.CreatedOn = createdOn
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&stored.ID); err != nil {
		return nil, mapExecError(fmt.Errorf("insert requester: %w", err))
	}

	return &stored, nil
}

// GetByID retrieves a requester by identifier.
func (r *RequesterRepository) GetByID(ctx context.Context, id int64) (*domain.Requester, error) {
	stmt, args, err := r.builder.Select(requesterColumns...).
		From("support.requesters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select requester sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByUsername retrieves a requester by username, compared case-insensitively.
func (r *RequesterRepository) GetByUsername(ctx context.Context, username string) (*domain.Requester, error) {
	stmt, args, err := r.builder.Select(requesterColumns...).
		From("support.requesters").
		Where(squirrel.Expr("lower(username) = lower(?)", strings.TrimSpace(username))).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select requester by username sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// UpdateIdentityHashes overwrites the stored IP and fingerprint digests. Used
// on the trust-on-first-use path when a returning requester opens a fresh
// conversation.
func (r *RequesterRepository) UpdateIdentityHashes(ctx context.Context, id int64, ipHash, fpHash string) error {
	stmt, args, err := r.builder.Update("support.requesters").
		Set("ip_hash", ipHash).
		Set("fp_hash", fpHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update requester hashes sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update requester hashes: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *RequesterRepository) scanRow(row pgx.Row) (*domain.Requester, error) {
	var requester domain.Requester
	if err := row.Scan(
		&requester.ID,
		&requester.Username,
		&requester.CreatedOn,
		&requester.IPHash,
		&requester.FPHash,
		&requester.WasApprovedBefore,
		&requester.LastReviewedByID,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan requester: %w", err)
	}

	return &requester, nil
}

var _ port.RequesterRepository = (*RequesterRepository)(nil)
