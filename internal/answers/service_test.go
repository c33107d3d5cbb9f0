package answers

import (
	"context"
	"fmt"
	"testing"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	items  []domain.Answer
	nextID int
}

func (m *mockRepository) Create(_ context.Context, answer *domain.Answer) error {
	m.nextID++
	answer.ID = fmt.Sprintf("a-%d", m.nextID)
	m.items = append(m.items, *answer)
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Answer, error) {
	for _, a := range m.items {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, ErrAnswerNotFound
}

func (m *mockRepository) List(_ context.Context, limit, offset int) ([]domain.Answer, error) {
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

func (m *mockRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Answer, error) {
	var out []domain.Answer
	for _, a := range m.items {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByQuestion(_ context.Context, questionID string) ([]domain.Answer, error) {
	var out []domain.Answer
	for _, a := range m.items {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, answer *domain.Answer) error {
	for i, a := range m.items {
		if a.ID == answer.ID {
			m.items[i] = *answer
			return nil
		}
	}
	return ErrAnswerNotFound
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrAnswerNotFound
}

func (m *mockRepository) DeleteByQuestionTx(_ context.Context, _ postgres.Tx, questionID string) error {
	var kept []domain.Answer
	for _, a := range m.items {
		if a.QuestionID != questionID {
			kept = append(kept, a)
		}
	}
	m.items = kept
	return nil
}

// mockChecker implements QuestionChecker over a fixed set of ids.
type mockChecker struct {
	known map[string]bool
}

func (m *mockChecker) Exists(_ context.Context, id string) (bool, error) {
	return m.known[id], nil
}

var (
	owner = domain.Identity{ID: "owner-id", Role: domain.RoleUser}
	other = domain.Identity{ID: "other-id", Role: domain.RoleUser}
	admin = domain.Identity{ID: "admin-id", Role: domain.RoleAdmin}
)

func newTestService(questionIDs ...string) (*Service, *mockRepository) {
	repo := &mockRepository{}
	checker := &mockChecker{known: map[string]bool{}}
	for _, id := range questionIDs {
		checker.known[id] = true
	}
	return NewService(repo, checker), repo
}

func TestCreate(t *testing.T) {
	service, _ := newTestService("q-1")

	answer, err := service.Create(context.Background(), owner, "q-1", "use channels")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.ID)
	assert.Equal(t, "q-1", answer.QuestionID)
	assert.Equal(t, owner.ID, answer.OwnerID, "owner is the acting identity")
}

func TestCreate_Validation(t *testing.T) {
	service, repo := newTestService("q-1")

	_, err := service.Create(context.Background(), owner, "q-1", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = service.Create(context.Background(), owner, "", "body")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = service.Create(context.Background(), owner, "missing-question", "body")
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	assert.Empty(t, repo.items, "nothing persisted on rejected create")
}

func TestList_Pagination(t *testing.T) {
	service, _ := newTestService("q-1")
	for i := 1; i <= 25; i++ {
		_, err := service.Create(context.Background(), owner, "q-1", fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	items, total, err := service.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, items, 10)
	assert.Equal(t, "answer 11", items[0].Title)
	assert.Equal(t, "answer 20", items[9].Title)

	// Out-of-range parameters fall back to page 1, limit 10.
	items, _, err = service.List(context.Background(), -1, 0)
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, "answer 1", items[0].Title)
}

func TestListOwn(t *testing.T) {
	service, _ := newTestService("q-1")
	_, err := service.Create(context.Background(), owner, "q-1", "mine")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), other, "q-1", "theirs")
	require.NoError(t, err)

	items, err := service.ListOwn(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Title)
}

func TestListByQuestion(t *testing.T) {
	service, _ := newTestService("q-1", "q-2")
	_, err := service.Create(context.Background(), owner, "q-1", "first")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), other, "q-2", "second")
	require.NoError(t, err)

	items, err := service.ListByQuestion(context.Background(), "q-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Title)

	_, err = service.ListByQuestion(context.Background(), "missing-question")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpdate_Ownership(t *testing.T) {
	service, _ := newTestService("q-1")
	answer, err := service.Create(context.Background(), owner, "q-1", "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), other, answer.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := service.Update(context.Background(), owner, answer.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Title)
	assert.Equal(t, "q-1", updated.QuestionID, "question reference unchanged")

	updated, err = service.Update(context.Background(), admin, answer.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Title)
}

func TestUpdate_Validation(t *testing.T) {
	service, _ := newTestService("q-1")
	answer, err := service.Create(context.Background(), owner, "q-1", "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), owner, answer.ID, "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = service.Update(context.Background(), admin, "missing-id", "body")
	assert.ErrorIs(t, err, ErrAnswerNotFound)
}

func TestDelete(t *testing.T) {
	service, repo := newTestService("q-1")
	answer, err := service.Create(context.Background(), owner, "q-1", "to delete")
	require.NoError(t, err)

	err = service.Delete(context.Background(), other, answer.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Len(t, repo.items, 1)

	require.NoError(t, service.Delete(context.Background(), owner, answer.ID))
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, service.Delete(context.Background(), owner, answer.ID), ErrAnswerNotFound)
}

func TestDeleteByQuestion(t *testing.T) {
	service, repo := newTestService("q-1", "q-2")
	_, err := service.Create(context.Background(), owner, "q-1", "doomed one")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), other, "q-1", "doomed two")
	require.NoError(t, err)
	survivor, err := service.Create(context.Background(), owner, "q-2", "survivor")
	require.NoError(t, err)

	require.NoError(t, service.DeleteByQuestionTx(context.Background(), nil, "q-1"))
	require.Len(t, repo.items, 1)
	assert.Equal(t, survivor.ID, repo.items[0].ID)
}
