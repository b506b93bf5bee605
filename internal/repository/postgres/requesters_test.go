package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

func TestRequesterRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequesterRepository(mock)

	requester := domain.Requester{
		Username: "banned_player",
		IPHash:   "ip-digest",
		FPHash:   "fp-digest",
	}

	mock.ExpectQuery(`INSERT INTO support\.requesters`).
		WithArgs(requester.Username, pgxmock.AnyArg(), requester.IPHash, requester.FPHash, false, (*int64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	stored, err := repo.Create(context.Background(), requester)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if stored.ID != 7 {
		t.Fatalf("expected id 7, got %d", stored.ID)
	}
	if stored.CreatedOn.IsZero() {
		t.Fatal("expected created_on to be populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequesterRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequesterRepository(mock)

	createdOn := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "username", "created_on", "ip_hash", "fp_hash", "was_approved_before", "last_reviewed_by_id",
	}).AddRow(
		int64(7), "banned_player", createdOn, "ip-digest", "fp-digest", false, nil,
	)

	mock.ExpectQuery(`SELECT .*FROM support\.requesters`).
		WithArgs("banned_player").
		WillReturnRows(rows)

	requester, err := repo.GetByUsername(context.Background(), "  banned_player ")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if requester.ID != 7 || requester.FPHash != "fp-digest" {
		t.Fatalf("unexpected requester %+v", requester)
	}
	if requester.LastReviewedByID != nil {
		t.Fatal("expected last_reviewed_by_id to be nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequesterRepository_UpdateIdentityHashesNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequesterRepository(mock)

	mock.ExpectExec(`UPDATE support\.requesters`).
		WithArgs("new-ip", "new-fp", int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateIdentityHashes(context.Background(), 404, "new-ip", "new-fp")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
