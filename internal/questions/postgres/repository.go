// Package postgres provides the PostgreSQL implementation of the questions
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/crackube/qna-backend/internal/domain"
	pgtx "github.com/crackube/qna-backend/internal/pkg/postgres"
	"github.com/crackube/qna-backend/internal/questions"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements questions.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new question.
func (r *Repository) Create(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO questions (title, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		question.Title,
		question.OwnerID,
	).Scan(&question.ID, &question.CreatedAt)

	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// GetByID retrieves a question by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	query := `
		SELECT id, title, user_id, created_at
		FROM questions
		WHERE id = $1
	`
	var question domain.Question
	err := r.db.QueryRow(ctx, query, id).Scan(
		&question.ID,
		&question.Title,
		&question.OwnerID,
		&question.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, questions.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question by id: %w", err)
	}

	return &question, nil
}

// List retrieves one page of questions ordered by creation time.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.Question, error) {
	query := `
		SELECT id, title, user_id, created_at
		FROM questions
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Count returns the total number of questions.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// ListByOwner retrieves every question owned by ownerID.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Question, error) {
	query := `
		SELECT id, title, user_id, created_at
		FROM questions
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list questions by owner: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Update persists a title change.
func (r *Repository) Update(ctx context.Context, question *domain.Question) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE questions SET title = $2 WHERE id = $1`,
		question.ID,
		question.Title,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return questions.ErrQuestionNotFound
		}
		return fmt.Errorf("update question: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return questions.ErrQuestionNotFound
	}
	return nil
}

// BeginTx starts a transaction for the cascading delete.
func (r *Repository) BeginTx(ctx context.Context) (pgtx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// DeleteTx removes a question inside the given transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx pgtx.Tx, id string) error {
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return fmt.Errorf("unexpected transaction type %T", tx)
	}

	tag, err := pgxTx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return questions.ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return questions.ErrQuestionNotFound
	}
	return nil
}

// isInvalidUUID reports whether err is Postgres invalid_text_representation,
// raised when a path parameter does not parse as a uuid. Such ids cannot
// match any row, so callers treat them as not found.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var items []domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(
			&question.ID,
			&question.Title,
			&question.OwnerID,
			&question.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return items, nil
}
