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

var adminUserColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"created_on",
	"is_active",
}

// AdminUserRepository implements port.AdminUserRepository using PostgreSQL.
type AdminUserRepository struct {
	exec    txStarter
	builder squirrel.StatementBuilderType
}

// NewAdminUserRepository wires a PostgreSQL-backed admin account repository.
func NewAdminUserRepository(exec txStarter) *AdminUserRepository {
	return &AdminUserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new admin account. Duplicate emails surface as
// repository.ErrConflict.
func (r *AdminUserRepository) Create(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error) {
	createdOn := user.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("support.admin_users").
		Columns("username", "email", "password_hash", "created_on", "is_active").
		Values(user.Username, user.Email, user.PasswordHash, createdOn, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert admin user sql: %w", err)
	}

	stored := user
	stored.CreatedOn = createdOn
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&stored.ID); err != nil {
		return nil, mapExecError(fmt.Errorf("insert admin user: %w", err))
	}

	return &stored, nil
}

// GetByID retrieves an active admin account by identifier.
func (r *AdminUserRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "is_active": true})
}

// GetByUsername retrieves an active admin account, compared case-insensitively.
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	stmt, args, err := r.builder.Select(adminUserColumns...).
		From("support.admin_users").
		Where(squirrel.Expr("lower(username) = lower(?)", strings.TrimSpace(username))).
		Where(squirrel.Eq{"is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin by username sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves an account by email regardless of the active flag, so
// provisioning can reject reuse of a soft-deleted account's address.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	stmt, args, err := r.builder.Select(adminUserColumns...).
		From("support.admin_users").
		Where(squirrel.Expr("lower(email) = lower(?)", strings.TrimSpace(email))).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin by email sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns active admin accounts, oldest first.
func (r *AdminUserRepository) List(ctx context.Context, filter port.AdminUserFilter) ([]domain.AdminUser, error) {
	query := r.builder.Select(adminUserColumns...).
		From("support.admin_users").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_on ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list admin users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query admin users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.AdminUser, 0)
	for rows.Next() {
		var user domain.AdminUser
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedOn,
			&user.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin users: %w", err)
	}

	return users, nil
}

// Count returns the number of active admin accounts.
func (r *AdminUserRepository) Count(ctx context.Context, _ port.AdminUserFilter) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("support.admin_users").
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count admin users sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan admin users count: %w", err)
	}

	return int(count), nil
}

// Deactivate marks the account inactive (soft delete).
func (r *AdminUserRepository) Deactivate(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Update("support.admin_users").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate admin sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate admin: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AdminUserRepository) getOne(ctx context.Context, where squirrel.Eq) (*domain.AdminUser, error) {
	stmt, args, err := r.builder.Select(adminUserColumns...).
		From("support.admin_users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin user sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *AdminUserRepository) scanRow(row pgx.Row) (*domain.AdminUser, error) {
	var user domain.AdminUser
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedOn,
		&user.IsActive,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin user: %w", err)
	}

	return &user, nil
}

var _ port.AdminUserRepository = (*AdminUserRepository)(nil)
