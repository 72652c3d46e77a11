package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-registry/internal/domain"
)

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a Postgres-backed implementation.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

// Create inserts the review. The problem_id foreign key rejects unknown
// problems, so no separate existence lookup is made.
func (r *reviewRepository) Create(ctx context.Context, review *domain.ProblemReview) error {
	const query = `
        INSERT INTO problem_reviews (problem_id, response)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		review.ProblemID,
		review.Response,
	).Scan(&review.ID, &review.CreatedAt)
	return translatePgError("reviewRepository.Create", err)
}

func (r *reviewRepository) ListByProblem(ctx context.Context, problemID int64) ([]domain.ProblemReview, error) {
	const query = `
        SELECT id, problem_id, COALESCE(response, ''), created_at
        FROM problem_reviews WHERE problem_id=$1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, problemID)
	if err != nil {
		return nil, translatePgError("reviewRepository.ListByProblem", err)
	}
	defer rows.Close()

	result := []domain.ProblemReview{}
	for rows.Next() {
		var review domain.ProblemReview
		if err := rows.Scan(
			&review.ID,
			&review.ProblemID,
			&review.Response,
			&review.CreatedAt,
		); err != nil {
			return nil, translatePgError("reviewRepository.ListByProblem", err)
		}
		result = append(result, review)
	}
	return result, translatePgError("reviewRepository.ListByProblem", rows.Err())
}
