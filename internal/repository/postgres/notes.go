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

var adminNoteColumns = []string{
	"id",
	"text",
	"created_on",
	"author_id",
	"requester_id",
}

// AdminNoteRepository implements port.AdminNoteRepository using PostgreSQL.
type AdminNoteRepository struct {
	exec    txStarter
	builder squirrel.StatementBuilderType
}

// NewAdminNoteRepository wires a PostgreSQL-backed admin note repository.
func NewAdminNoteRepository(exec txStarter) *AdminNoteRepository {
	return &AdminNoteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new note row.
func (r *AdminNoteRepository) Create(ctx context.Context, note domain.AdminNote) (*domain.AdminNote, error) {
	createdOn := note.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now().UTC()
	}

	stmt, args, err := r.builder.Insert("support.admin_notes").
		Columns("text", "created_on", "author_id", "requester_id").
		Values(note.Text, createdOn, note.AuthorID, note.RequesterID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert note sql: %w", err)
	}

	stored := note
	stored.CreatedOn = createdOn
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&stored.ID); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	return &stored, nil
}

// GetByID retrieves a note by identifier.
func (r *AdminNoteRepository) GetByID(ctx context.Context, id int64) (*domain.AdminNote, error) {
	stmt, args, err := r.builder.Select(adminNoteColumns...).
		From("support.admin_notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select note sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns notes matching the filter, newest first.
func (r *AdminNoteRepository) List(ctx context.Context, filter port.AdminNoteFilter) ([]domain.AdminNote, error) {
	query := r.builder.Select(adminNoteColumns...).
		From("support.admin_notes").
		OrderBy("created_on DESC")

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
		return nil, fmt.Errorf("build list notes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.AdminNote, 0)
	for rows.Next() {
		var note domain.AdminNote
		if err := rows.Scan(
			&note.ID,
			&note.Text,
			&note.CreatedOn,
			&note.AuthorID,
			&note.RequesterID,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// Count returns the total number of notes matching the filter.
func (r *AdminNoteRepository) Count(ctx context.Context, filter port.AdminNoteFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("support.admin_notes")

	if filter.RequesterID != 0 {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count notes sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan notes count: %w", err)
	}

	return int(count), nil
}

// UpdateText replaces the note body and returns the updated row.
func (r *AdminNoteRepository) UpdateText(ctx context.Context, id int64, text string) (*domain.AdminNote, error) {
	stmt, args, err := r.builder.Update("support.admin_notes").
		Set("text", text).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(adminNoteColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update note sql: %w", err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes a note.
func (r *AdminNoteRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("support.admin_notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete note sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AdminNoteRepository) scanRow(row pgx.Row) (*domain.AdminNote, error) {
	var note domain.AdminNote
	if err := row.Scan(
		&note.ID,
		&note.Text,
		&note.CreatedOn,
		&note.AuthorID,
		&note.RequesterID,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}

	return &note, nil
}

var _ port.AdminNoteRepository = (*AdminNoteRepository)(nil)
