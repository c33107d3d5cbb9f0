package questions

import (
	"context"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/postgres"
)

// Repository defines the interface for question data operations.
type Repository interface {
	Create(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context, limit, offset int) ([]domain.Question, error)
	Count(ctx context.Context) (int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error

	// Transaction methods for the cascading delete.
	BeginTx(ctx context.Context) (postgres.Tx, error)
	DeleteTx(ctx context.Context, tx postgres.Tx, id string) error
}
