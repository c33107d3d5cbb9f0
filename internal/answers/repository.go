package answers

import (
	"context"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
)

// Repository defines the interface for answer data operations.
type Repository interface {
	Create(ctx context.Context, answer *domain.Answer) error
	GetByID(ctx context.Context, id string) (*domain.Answer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Answer, error)
	Count(ctx context.Context) (int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error)
	Update(ctx context.Context, answer *domain.Answer) error
	Delete(ctx context.Context, id string) error

	// DeleteByQuestionTx removes every answer for a question inside the
	// caller's transaction. Used by the question cascade.
	DeleteByQuestionTx(ctx context.Context, tx postgres.Tx, questionID string) error
}
