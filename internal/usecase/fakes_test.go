package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/mykdolnyk/ban-review-website/internal/core/domain"
	"github.com/mykdolnyk/ban-review-website/internal/core/port"
)

var errUnexpectedCall = errors.New("unexpected call")

type testRequesterRepo struct {
	createFn        func(ctx context.Context, requester domain.Requester) (*domain.Requester, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.Requester, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.Requester, error)
	updateHashesFn  func(ctx context.Context, id int64, ipHash, fpHash string) error
}

func (r *testRequesterRepo) Create(ctx context.Context, requester domain.Requester) (*domain.Requester, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, requester)
}

func (r *testRequesterRepo) GetByID(ctx context.Context, id int64) (*domain.Requester, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *testRequesterRepo) GetByUsername(ctx context.Context, username string) (*domain.Requester, error) {
	if r.getByUsernameFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByUsernameFn(ctx, username)
}

func (r *testRequesterRepo) UpdateIdentityHashes(ctx context.Context, id int64, ipHash, fpHash string) error {
	if r.updateHashesFn == nil {
		return errUnexpectedCall
	}
	return r.updateHashesFn(ctx, id, ipHash, fpHash)
}

type testThreadRepo struct {
	createWithSeedFn       func(ctx context.Context, thread domain.Thread, seed domain.Message) (*domain.Thread, error)
	getByIDFn              func(ctx context.Context, id int64) (*domain.Thread, error)
	getActiveByIDFn        func(ctx context.Context, id int64) (*domain.Thread, error)
	getActiveByRequesterFn func(ctx context.Context, requesterID int64) (*domain.Thread, error)
	keyExistsFn            func(ctx context.Context, key string) (bool, error)
	listFn                 func(ctx context.Context, filter port.ThreadFilter) ([]domain.Thread, error)
	countFn                func(ctx context.Context, filter port.ThreadFilter) (int, error)
	updateStatusFn         func(ctx context.Context, id int64, status domain.ThreadStatus) error
	finishFn               func(ctx context.Context, id int64, status domain.ThreadStatus, deleteMessages bool, review *port.ThreadReview) error
	listStaleActiveFn      func(ctx context.Context, cutoff time.Time) ([]domain.Thread, error)
}

func (r *testThreadRepo) CreateWithSeed(ctx context.Context, thread domain.Thread, seed domain.Message) (*domain.Thread, error) {
	if r.createWithSeedFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createWithSeedFn(ctx, thread, seed)
}

func (r *testThreadRepo) GetByID(ctx context.Context, id int64) (*domain.Thread, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *testThreadRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Thread, error) {
	if r.getActiveByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getActiveByIDFn(ctx, id)
}

func (r *testThreadRepo) GetActiveByRequester(ctx context.Context, requesterID int64) (*domain.Thread, error) {
	if r.getActiveByRequesterFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getActiveByRequesterFn(ctx, requesterID)
}

func (r *testThreadRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	if r.keyExistsFn == nil {
		return false, errUnexpectedCall
	}
	return r.keyExistsFn(ctx, key)
}

func (r *testThreadRepo) List(ctx context.Context, filter port.ThreadFilter) ([]domain.Thread, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *testThreadRepo) Count(ctx context.Context, filter port.ThreadFilter) (int, error) {
	if r.countFn == nil {
		return 0, errUnexpectedCall
	}
	return r.countFn(ctx, filter)
}

func (r *testThreadRepo) UpdateStatus(ctx context.Context, id int64, status domain.ThreadStatus) error {
	if r.updateStatusFn == nil {
		return errUnexpectedCall
	}
	return r.updateStatusFn(ctx, id, status)
}

func (r *testThreadRepo) Finish(ctx context.Context, id int64, status domain.ThreadStatus, deleteMessages bool, review *port.ThreadReview) error {
	if r.finishFn == nil {
		return errUnexpectedCall
	}
	return r.finishFn(ctx, id, status, deleteMessages, review)
}

func (r *testThreadRepo) ListStaleActive(ctx context.Context, cutoff time.Time) ([]domain.Thread, error) {
	if r.listStaleActiveFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listStaleActiveFn(ctx, cutoff)
}

type testMessageRepo struct {
	createFn       func(ctx context.Context, message domain.Message) (*domain.Message, error)
	getByIDFn      func(ctx context.Context, id int64) (*domain.Message, error)
	listFn         func(ctx context.Context, filter port.MessageFilter) ([]domain.Message, error)
	countFn        func(ctx context.Context, filter port.MessageFilter) (int, error)
	deleteFn       func(ctx context.Context, id int64) error
	listByThreadFn func(ctx context.Context, threadID int64) ([]domain.Message, error)
}

func (r *testMessageRepo) Create(ctx context.Context, message domain.Message) (*domain.Message, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, message)
}

func (r *testMessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *testMessageRepo) List(ctx context.Context, filter port.MessageFilter) ([]domain.Message, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *testMessageRepo) Count(ctx context.Context, filter port.MessageFilter) (int, error) {
	if r.countFn == nil {
		return 0, errUnexpectedCall
	}
	return r.countFn(ctx, filter)
}

func (r *testMessageRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteFn == nil {
		return errUnexpectedCall
	}
	return r.deleteFn(ctx, id)
}

func (r *testMessageRepo) ListByThread(ctx context.Context, threadID int64) ([]domain.Message, error) {
	if r.listByThreadFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listByThreadFn(ctx, threadID)
}

type testAdminRepo struct {
	createFn        func(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.AdminUser, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.AdminUser, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.AdminUser, error)
	listFn          func(ctx context.Context, filter port.AdminUserFilter) ([]domain.AdminUser, error)
	countFn         func(ctx context.Context, filter port.AdminUserFilter) (int, error)
	deactivateFn    func(ctx context.Context, id int64) error
}

func (r *testAdminRepo) Create(ctx context.Context, user domain.AdminUser) (*domain.AdminUser, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, user)
}

func (r *testAdminRepo) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *testAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	if r.getByUsernameFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByUsernameFn(ctx, username)
}

func (r *testAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if r.getByEmailFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByEmailFn(ctx, email)
}

func (r *testAdminRepo) List(ctx context.Context, filter port.AdminUserFilter) ([]domain.AdminUser, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *testAdminRepo) Count(ctx context.Context, filter port.AdminUserFilter) (int, error) {
	if r.countFn == nil {
		return 0, errUnexpectedCall
	}
	return r.countFn(ctx, filter)
}

func (r *testAdminRepo) Deactivate(ctx context.Context, id int64) error {
	if r.deactivateFn == nil {
		return errUnexpectedCall
	}
	return r.deactivateFn(ctx, id)
}

type testNoteRepo struct {
	createFn     func(ctx context.Context, note domain.AdminNote) (*domain.AdminNote, error)
	getByIDFn    func(ctx context.Context, id int64) (*domain.AdminNote, error)
	listFn       func(ctx context.Context, filter port.AdminNoteFilter) ([]domain.AdminNote, error)
	countFn      func(ctx context.Context, filter port.AdminNoteFilter) (int, error)
	updateTextFn func(ctx context.Context, id int64, text string) (*domain.AdminNote, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (r *testNoteRepo) Create(ctx context.Context, note domain.AdminNote) (*domain.AdminNote, error) {
	if r.createFn == nil {
		return nil, errUnexpectedCall
	}
	return r.createFn(ctx, note)
}

func (r *testNoteRepo) GetByID(ctx context.Context, id int64) (*domain.AdminNote, error) {
	if r.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return r.getByIDFn(ctx, id)
}

func (r *testNoteRepo) List(ctx context.Context, filter port.AdminNoteFilter) ([]domain.AdminNote, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(ctx, filter)
}

func (r *testNoteRepo) Count(ctx context.Context, filter port.AdminNoteFilter) (int, error) {
	if r.countFn == nil {
		return 0, errUnexpectedCall
	}
	return r.countFn(ctx, filter)
}

func (r *testNoteRepo) UpdateText(ctx context.Context, id int64, text string) (*domain.AdminNote, error) {
	if r.updateTextFn == nil {
		return nil, errUnexpectedCall
	}
	return r.updateTextFn(ctx, id, text)
}

func (r *testNoteRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteFn == nil {
		return errUnexpectedCall
	}
	return r.deleteFn(ctx, id)
}

type testLoginAttemptStore struct {
	counts     map[string]int64
	increments int
	resets     int
}

func newTestLoginAttemptStore() *testLoginAttemptStore {
	return &testLoginAttemptStore{counts: make(map[string]int64)}
}

func (s *testLoginAttemptStore) Increment(_ context.Context, ip string, _ time.Duration) (int64, error) {
	s.increments++
	s.counts[ip]++
	return s.counts[ip], nil
}

func (s *testLoginAttemptStore) Count(_ context.Context, ip string) (int64, error) {
	return s.counts[ip], nil
}

func (s *testLoginAttemptStore) Reset(_ context.Context, ip string) error {
	s.resets++
	delete(s.counts, ip)
	return nil
}

type testDenylist struct {
	denied map[string]time.Duration
}

func newTestDenylist() *testDenylist {
	return &testDenylist{denied: make(map[string]time.Duration)}
}

func (d *testDenylist) Deny(_ context.Context, jti string, ttl time.Duration) error {
	d.denied[jti] = ttl
	return nil
}

func (d *testDenylist) IsDenied(_ context.Context, jti string) (bool, error) {
	_, ok := d.denied[jti]
	return ok, nil
}

type testPublisher struct {
	opened   []domain.ThreadOpenedEvent
	finished []domain.ThreadFinishedEvent
	err      error
}

func (p *testPublisher) PublishThreadOpened(_ context.Context, event domain.ThreadOpenedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.opened = append(p.opened, event)
	return nil
}

func (p *testPublisher) PublishThreadFinished(_ context.Context, event domain.ThreadFinishedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.finished = append(p.finished, event)
	return nil
}
