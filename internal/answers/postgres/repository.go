// Package postgres provides the PostgreSQL implementation of the answers
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/crackube/qna-backend/internal/answers"
	"github.com/crackube/qna-backend/internal/domain"
	pgtx "github.com/crackube/qna-backend/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements answers.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new answer.
func (r *Repository) Create(ctx context.Context, answer *domain.Answer) error {
	query := `
		INSERT INTO answers (title, question_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		answer.Title,
		answer.QuestionID,
		answer.OwnerID,
	).Scan(&answer.ID, &answer.CreatedAt)

	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	return nil
}

// GetByID retrieves an answer by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Answer, error) {
	query := `
		SELECT id, title, question_id, user_id, created_at
		FROM answers
		WHERE id = $1
	`
	var answer domain.Answer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&answer.ID,
		&answer.Title,
		&answer.QuestionID,
		&answer.OwnerID,
		&answer.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, answers.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("get answer by id: %w", err)
	}

	return &answer, nil
}

// List retrieves one page of answers ordered by creation time.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.Answer, error) {
	query := `
		SELECT id, title, question_id, user_id, created_at
		FROM answers
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	return scanAnswers(rows)
}

// Count returns the total number of answers.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM answers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return count, nil
}

// ListByOwner retrieves every answer owned by ownerID.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Answer, error) {
	query := `
		SELECT id, title, question_id, user_id, created_at
		FROM answers
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list answers by owner: %w", err)
	}
	defer rows.Close()

	return scanAnswers(rows)
}

// ListByQuestion retrieves every answer referencing questionID.
func (r *Repository) ListByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error) {
	query := `
		SELECT id, title, question_id, user_id, created_at
		FROM answers
		WHERE question_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers by question: %w", err)
	}
	defer rows.Close()

	return scanAnswers(rows)
}

// Update persists a title change.
func (r *Repository) Update(ctx context.Context, answer *domain.Answer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE answers SET title = $2 WHERE id = $1`,
		answer.ID,
		answer.Title,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return answers.ErrAnswerNotFound
		}
		return fmt.Errorf("update answer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return answers.ErrAnswerNotFound
	}
	return nil
}

// Delete removes a single answer.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return answers.ErrAnswerNotFound
		}
		return fmt.Errorf("delete answer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return answers.ErrAnswerNotFound
	}
	return nil
}

// DeleteByQuestionTx removes every answer for a question inside the given
// transaction. Zero rows is not an error; a question may have no answers.
func (r *Repository) DeleteByQuestionTx(ctx context.Context, tx pgtx.Tx, questionID string) error {
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return fmt.Errorf("unexpected transaction type %T", tx)
	}

	if _, err := pgxTx.Exec(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("delete answers by question: %w", err)
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

func scanAnswers(rows pgx.Rows) ([]domain.Answer, error) {
	var items []domain.Answer
	for rows.Next() {
		var answer domain.Answer
		if err := rows.Scan(
			&answer.ID,
			&answer.Title,
			&answer.QuestionID,
			&answer.OwnerID,
			&answer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		items = append(items, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return items, nil
}
