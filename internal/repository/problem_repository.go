package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-registry/internal/domain"
)

type problemRepository struct {
	pool *pgxpool.Pool
}

// NewProblemRepository returns a Postgres-backed implementation.
func NewProblemRepository(pool *pgxpool.Pool) ProblemRepository {
	return &problemRepository{pool: pool}
}

func (r *problemRepository) Create(ctx context.Context, problem *domain.UserProblem) error {
	const query = `
        INSERT INTO user_problems (description, user_id)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		problem.Description,
		problem.UserID,
	).Scan(&problem.ID, &problem.CreatedAt)
	return translatePgError("problemRepository.Create", err)
}

func (r *problemRepository) GetByID(ctx context.Context, id int64) (*domain.UserProblem, error) {
	const query = `
        SELECT id, description, user_id, created_at
        FROM user_problems WHERE id=$1`

	var problem domain.UserProblem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&problem.ID,
		&problem.Description,
		&problem.UserID,
		&problem.CreatedAt,
	); err != nil {
		return nil, translatePgError("problemRepository.GetByID", err)
	}
	return &problem, nil
}

func (r *problemRepository) List(ctx context.Context) ([]domain.UserProblem, error) {
	const query = `
        SELECT id, description, user_id, created_at
        FROM user_problems ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translatePgError("problemRepository.List", err)
	}
	defer rows.Close()

	result := []domain.UserProblem{}
	for rows.Next() {
		var problem domain.UserProblem
		if err := rows.Scan(
			&problem.ID,
			&problem.Description,
			&problem.UserID,
			&problem.CreatedAt,
		); err != nil {
			return nil, translatePgError("problemRepository.List", err)
		}
		result = append(result, problem)
	}
	return result, translatePgError("problemRepository.List", rows.Err())
}
