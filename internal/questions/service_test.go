package questions

import (
	"context"
	"fmt"
	"testing"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx implements postgres.Tx and records its lifecycle.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// mockRepository implements Repository for testing.
type mockRepository struct {
	items  []domain.Question
	nextID int
	lastTx *fakeTx
}

func (m *mockRepository) Create(_ context.Context, question *domain.Question) error {
	m.nextID++
	question.ID = fmt.Sprintf("q-%d", m.nextID)
	m.items = append(m.items, *question)
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Question, error) {
	for _, q := range m.items {
		if q.ID == id {
			out := q
			return &out, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (m *mockRepository) List(_ context.Context, limit, offset int) ([]domain.Question, error) {
	if offset >= len(m.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.items) {
		end = len(m.items)
	}
	return m.items[offset:end], nil
}

func (m *mockRepository) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

func (m *mockRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range m.items {
		if q.OwnerID == ownerID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, question *domain.Question) error {
	for i, q := range m.items {
		if q.ID == question.ID {
			m.items[i] = *question
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (m *mockRepository) BeginTx(context.Context) (postgres.Tx, error) {
	m.lastTx = &fakeTx{}
	return m.lastTx, nil
}

func (m *mockRepository) DeleteTx(_ context.Context, tx postgres.Tx, id string) error {
	if tx != m.lastTx {
		return fmt.Errorf("delete outside transaction")
	}
	for i, q := range m.items {
		if q.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// recordingPurger implements AnswerPurger and records calls.
type recordingPurger struct {
	purged []string
	lastTx postgres.Tx
	err    error
}

func (p *recordingPurger) DeleteByQuestionTx(_ context.Context, tx postgres.Tx, questionID string) error {
	if p.err != nil {
		return p.err
	}
	p.purged = append(p.purged, questionID)
	p.lastTx = tx
	return nil
}

var (
	owner = domain.Identity{ID: "owner-id", Role: domain.RoleUser}
	other = domain.Identity{ID: "other-id", Role: domain.RoleUser}
	admin = domain.Identity{ID: "admin-id", Role: domain.RoleAdmin}
)

func newTestService() (*Service, *mockRepository, *recordingPurger) {
	repo := &mockRepository{}
	purger := &recordingPurger{}
	return NewService(repo, purger), repo, purger
}

func TestCreate(t *testing.T) {
	service, _, _ := newTestService()

	question, err := service.Create(context.Background(), owner, "How do goroutines work?")
	require.NoError(t, err)
	assert.NotEmpty(t, question.ID)
	assert.Equal(t, owner.ID, question.OwnerID, "owner is the acting identity")

	_, err = service.Create(context.Background(), owner, "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = service.Create(context.Background(), owner, "   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestList_Pagination(t *testing.T) {
	service, _, _ := newTestService()
	for i := 1; i <= 25; i++ {
		_, err := service.Create(context.Background(), owner, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	items, total, err := service.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, items, 10)
	assert.Equal(t, "question 11", items[0].Title)
	assert.Equal(t, "question 20", items[9].Title)

	// Last partial page
	items, total, err = service.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, items, 5)

	// Beyond the collection
	items, total, err = service.List(context.Background(), 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, items)
}

func TestList_Defaults(t *testing.T) {
	service, _, _ := newTestService()
	for i := 1; i <= 15; i++ {
		_, err := service.Create(context.Background(), owner, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	// Out-of-range parameters fall back to page 1, limit 10.
	items, total, err := service.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	require.Len(t, items, 10)
	assert.Equal(t, "question 1", items[0].Title)
}

func TestList_Empty(t *testing.T) {
	service, _, _ := newTestService()

	items, total, err := service.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestListOwn(t *testing.T) {
	service, _, _ := newTestService()
	_, err := service.Create(context.Background(), owner, "mine")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), other, "theirs")
	require.NoError(t, err)

	items, err := service.ListOwn(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Title)

	items, err = service.ListOwn(context.Background(), admin)
	require.NoError(t, err)
	assert.Empty(t, items, "admin listing own records sees only their own")
}

func TestUpdate_Ownership(t *testing.T) {
	service, _, _ := newTestService()
	question, err := service.Create(context.Background(), owner, "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), other, question.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := service.Update(context.Background(), owner, question.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Title)

	updated, err = service.Update(context.Background(), admin, question.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Title)
}

func TestUpdate_Validation(t *testing.T) {
	service, _, _ := newTestService()
	question, err := service.Create(context.Background(), owner, "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), owner, question.ID, "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = service.Update(context.Background(), admin, "missing-id", "title")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDelete_CascadesInTransaction(t *testing.T) {
	service, repo, purger := newTestService()
	question, err := service.Create(context.Background(), owner, "to delete")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), owner, question.ID))

	assert.Equal(t, []string{question.ID}, purger.purged, "answers purged for the question")
	assert.Same(t, repo.lastTx, purger.lastTx.(*fakeTx), "purge shares the delete transaction")
	assert.True(t, repo.lastTx.committed)
	assert.False(t, repo.lastTx.rolledBack)
	assert.Empty(t, repo.items)
}

func TestDelete_PurgeFailureRollsBack(t *testing.T) {
	service, repo, purger := newTestService()
	question, err := service.Create(context.Background(), owner, "to delete")
	require.NoError(t, err)

	purger.err = fmt.Errorf("answers table unavailable")

	err = service.Delete(context.Background(), owner, question.ID)
	require.Error(t, err)
	assert.False(t, repo.lastTx.committed)
	assert.True(t, repo.lastTx.rolledBack)
	assert.Len(t, repo.items, 1, "question survives a failed cascade")
}

func TestDelete_Authorization(t *testing.T) {
	service, repo, purger := newTestService()
	question, err := service.Create(context.Background(), owner, "owned")
	require.NoError(t, err)

	err = service.Delete(context.Background(), other, question.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, purger.purged, "no cascade on denied delete")
	assert.Len(t, repo.items, 1)

	require.NoError(t, service.Delete(context.Background(), admin, question.ID))
	assert.Empty(t, repo.items)
}

func TestDelete_NotFound(t *testing.T) {
	service, _, _ := newTestService()

	// Not found wins regardless of caller role.
	assert.ErrorIs(t, service.Delete(context.Background(), admin, "missing"), ErrQuestionNotFound)
	assert.ErrorIs(t, service.Delete(context.Background(), owner, "missing"), ErrQuestionNotFound)
}
