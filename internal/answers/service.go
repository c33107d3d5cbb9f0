// Package answers provides CRUD and ownership enforcement for answers.
// Every answer references a question; the reference is checked on create
// and enforced by the question delete cascade rather than a foreign key.
package answers

import (
	"context"
	"fmt"
	"strings"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
)

// Pagination defaults and bounds for the unscoped listing.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// QuestionChecker reports whether a question exists. Implemented by the
// questions service; wired in app to avoid an import cycle.
type QuestionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service implements answer business logic.
type Service struct {
	repo      Repository
	questions QuestionChecker
}

// NewService creates a new answer service.
func NewService(repo Repository, questions QuestionChecker) *Service {
	return &Service{
		repo:      repo,
		questions: questions,
	}
}

// Create persists a new answer owned by the actor. The referenced question
// must exist.
func (s *Service) Create(ctx context.Context, actor domain.Identity, questionID, title string) (*domain.Answer, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(questionID) == "" {
		return nil, ErrEmptyTitle
	}

	exists, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !exists {
		return nil, ErrQuestionNotFound
	}

	answer := &domain.Answer{
		Title:      title,
		QuestionID: questionID,
		OwnerID:    actor.ID,
	}

	if err := s.repo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	return answer, nil
}

// List returns one page of answers plus the total count of the unfiltered
// set. Page and limit fall back to defaults when out of range; limit is
// capped.
func (s *Service) List(ctx context.Context, page, limit int) ([]domain.Answer, int, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count answers: %w", err)
	}

	items, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list answers: %w", err)
	}

	return items, total, nil
}

// ListOwn returns the actor's answers. Empty result is a success.
func (s *Service) ListOwn(ctx context.Context, actor domain.Identity) ([]domain.Answer, error) {
	items, err := s.repo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list own answers: %w", err)
	}
	return items, nil
}

// ListByQuestion returns every answer for one question.
func (s *Service) ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	exists, err := s.questions.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !exists {
		return nil, ErrQuestionNotFound
	}

	items, err := s.repo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers by question: %w", err)
	}
	return items, nil
}

// Update replaces the title of an answer the actor owns (or any answer for
// admins). The question reference is immutable.
func (s *Service) Update(ctx context.Context, actor domain.Identity, id, title string) (*domain.Answer, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	answer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanModify(actor, answer.OwnerID) {
		return nil, ErrNotOwner
	}

	answer.Title = title
	if err := s.repo.Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("update answer: %w", err)
	}

	return answer, nil
}

// Delete removes a single answer.
func (s *Service) Delete(ctx context.Context, actor domain.Identity, id string) error {
	answer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanModify(actor, answer.OwnerID) {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}

	return nil
}

// DeleteByQuestionTx removes every answer for a question inside the given
// transaction. It satisfies the purger interface the question cascade uses.
func (s *Service) DeleteByQuestionTx(ctx context.Context, tx postgres.Tx, questionID string) error {
	return s.repo.DeleteByQuestionTx(ctx, tx, questionID)
}
