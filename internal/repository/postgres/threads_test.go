package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

func TestThreadRepository_CreateWithSeed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	requesterID := int64(7)
	thread := domain.Thread{
		Key:         "PINBAN-ABC-1234",
		Status:      domain.ThreadStatusActive,
		RequesterID: requesterID,
	}
	seed := domain.Message{
		Text:        "please review my ban",
		RequesterID: &requesterID,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO support\.threads`).
		WithArgs(thread.Key, thread.Status, pgxmock.AnyArg(), pgxmock.AnyArg(), requesterID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`INSERT INTO support\.messages`).
		WithArgs(seed.Text, pgxmock.AnyArg(), (*int64)(nil), &requesterID, int64(11)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	stored, err := repo.CreateWithSeed(context.Background(), thread, seed)
	if err != nil {
		t.Fatalf("CreateWithSeed returned error: %v", err)
	}
	if stored.ID != 11 {
		t.Fatalf("expected thread id 11, got %d", stored.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_CreateWithSeedRollsBackOnSeedFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	requesterID := int64(7)
	thread := domain.Thread{Key: "PINBAN-ABC-1234", Status: domain.ThreadStatusActive, RequesterID: requesterID}
	seed := domain.Message{Text: "hello", RequesterID: &requesterID}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO support\.threads`).
		WithArgs(thread.Key, thread.Status, pgxmock.AnyArg(), pgxmock.AnyArg(), requesterID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`INSERT INTO support\.messages`).
		WithArgs(seed.Text, pgxmock.AnyArg(), (*int64)(nil), &requesterID, int64(11)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if _, err := repo.CreateWithSeed(context.Background(), thread, seed); err == nil {
		t.Fatal("expected seed insert failure to surface")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_GetActiveByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM support\.threads`).
		WithArgs(int64(404), domain.ThreadStatusActive).
		WillReturnRows(pgxmock.NewRows(threadColumns))

	_, err = repo.GetActiveByID(context.Background(), 404)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_KeyExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	mock.ExpectQuery(`SELECT 1 FROM support\.threads`).
		WithArgs("PINBAN-ABC-1234").
		WillReturnRows(pgxmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.KeyExists(context.Background(), "PINBAN-ABC-1234")
	if err != nil {
		t.Fatalf("KeyExists returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}

	mock.ExpectQuery(`SELECT 1 FROM support\.threads`).
		WithArgs("PINBAN-ZZZ-0000").
		WillReturnRows(pgxmock.NewRows([]string{"1"}))

	exists, err = repo.KeyExists(context.Background(), "PINBAN-ZZZ-0000")
	if err != nil {
		t.Fatalf("KeyExists returned error: %v", err)
	}
	if exists {
		t.Fatal("expected key to be free")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_FinishPurgesMessages(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE support\.threads`).
		WithArgs(domain.ThreadStatusApproved, pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM support\.messages`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	if err := repo.Finish(context.Background(), 11, domain.ThreadStatusApproved, true, nil); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_FinishKeepsMessagesWhenSuppressed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE support\.threads`).
		WithArgs(domain.ThreadStatusDenied, pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := repo.Finish(context.Background(), 11, domain.ThreadStatusDenied, false, nil); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_FinishRecordsReviewerBeforePurge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	review := &port.ThreadReview{RequesterID: 7, AdminID: 12, Approved: true}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE support\.threads`).
		WithArgs(domain.ThreadStatusApproved, pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE support\.requesters`).
		WithArgs(int64(12), true, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM support\.messages`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	if err := repo.Finish(context.Background(), 11, domain.ThreadStatusApproved, true, review); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_FinishRollsBackOnReviewFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	review := &port.ThreadReview{RequesterID: 7, AdminID: 12, Approved: false}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE support\.threads`).
		WithArgs(domain.ThreadStatusDenied, pgxmock.AnyArg(), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE support\.requesters`).
		WithArgs(int64(12), int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := repo.Finish(context.Background(), 11, domain.ThreadStatusDenied, true, review); err == nil {
		t.Fatal("expected review failure to surface")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestThreadRepository_ListStaleActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewThreadRepository(mock)

	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	lastActivity := cutoff.Add(-time.Hour)

	rows := pgxmock.NewRows(threadColumns).AddRow(
		int64(1), "PINBAN-AAA-0001", domain.ThreadStatusActive, lastActivity, lastActivity, int64(7),
	)

	mock.ExpectQuery(`SELECT .*FROM support\.threads`).
		WithArgs(domain.ThreadStatusActive, cutoff).
		WillReturnRows(rows)

	threads, err := repo.ListStaleActive(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ListStaleActive returned error: %v", err)
	}
	if len(threads) != 1 || threads[0].Key != "PINBAN-AAA-0001" {
		t.Fatalf("unexpected stale threads %+v", threads)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
