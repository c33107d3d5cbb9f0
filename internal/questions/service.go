// Package questions provides CRUD and ownership enforcement for questions,
// including the cascading delete of dependent answers.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/ctxlog"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

// Pagination defaults and bounds for the unscoped listing.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// AnswerPurger deletes every answer tied to a question inside the caller's
// transaction. Implemented by the answers service; wired in app to avoid an
// import cycle.
type AnswerPurger interface {
	DeleteByQuestionTx(ctx context.Context, tx postgres.Tx, questionID string) error
}

// Service implements question business logic.
type Service struct {
	repo    Repository
	answers AnswerPurger
}

// NewService creates a new question service.
func NewService(repo Repository, answers AnswerPurger) *Service {
	return &Service{
		repo:    repo,
		answers: answers,
	}
}

// Create persists a new question owned by the actor.
func (s *Service) Create(ctx context.Context, actor domain.Identity, title string) (*domain.Question, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	question := &domain.Question{
		Title:   title,
		OwnerID: actor.ID,
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	return question, nil
}

// List returns one page of questions plus the total count of the
// unfiltered set. Page and limit fall back to defaults when out of range;
// limit is capped.
func (s *Service) List(ctx context.Context, page, limit int) ([]domain.Question, int, error) {
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
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	items, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	return items, total, nil
}

// ListOwn returns the actor's questions. Empty result is a success.
func (s *Service) ListOwn(ctx context.Context, actor domain.Identity) ([]domain.Question, error) {
	items, err := s.repo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list own questions: %w", err)
	}
	return items, nil
}

// Exists reports whether a question with the given id exists.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrQuestionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check question: %w", err)
	}
	return true, nil
}

// Update replaces the title of a question the actor owns (or any question
// for admins).
func (s *Service) Update(ctx context.Context, actor domain.Identity, id, title string) (*domain.Question, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanModify(actor, question.OwnerID) {
		return nil, ErrNotOwner
	}

	question.Title = title
	if err := s.repo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}

	return question, nil
}

// Delete removes a question and every answer referencing it. Both deletes
// happen in a single transaction so no answer can outlive its question.
func (s *Service) Delete(ctx context.Context, actor domain.Identity, id string) error {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanModify(actor, question.OwnerID) {
		return ErrNotOwner
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			ctxlog.FromContext(ctx).Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.answers.DeleteByQuestionTx(ctx, tx, id); err != nil {
		return fmt.Errorf("delete answers for question: %w", err)
	}

	if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
