package sqlitestore

import (
	"context"

	"zombiezen.com/go/sqlite"

	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
)

type problemRepository struct {
	db *persistence.SQLite
}

func scanProblem(stmt *sqlite.Stmt) domain.UserProblem {
	return domain.UserProblem{
		ID:          stmt.GetInt64("id"),
		Description: stmt.GetText("description"),
		UserID:      stmt.GetInt64("user_id"),
		CreatedAt:   unixTime(stmt, "created_at"),
	}
}

func (r *problemRepository) Create(ctx context.Context, problem *domain.UserProblem) error {
	const query = `
        INSERT INTO user_problems (description, user_id)
        VALUES (?, ?)
        RETURNING id, created_at`

	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			problem.ID = stmt.GetInt64("id")
			problem.CreatedAt = unixTime(stmt, "created_at")
			return nil
		}, problem.Description, problem.UserID)
	})
	return translateError("problemRepository.Create", err)
}

func (r *problemRepository) GetByID(ctx context.Context, id int64) (*domain.UserProblem, error) {
	var found *domain.UserProblem
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, `SELECT id, description, user_id, created_at FROM user_problems WHERE id = ?`,
			func(stmt *sqlite.Stmt) error {
				problem := scanProblem(stmt)
				found = &problem
				return nil
			}, id)
	})
	if err != nil {
		return nil, translateError("problemRepository.GetByID", err)
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *problemRepository) List(ctx context.Context) ([]domain.UserProblem, error) {
	result := []domain.UserProblem{}
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, `SELECT id, description, user_id, created_at FROM user_problems ORDER BY id ASC`,
			func(stmt *sqlite.Stmt) error {
				result = append(result, scanProblem(stmt))
				return nil
			})
	})
	if err != nil {
		return nil, translateError("problemRepository.List", err)
	}
	return result, nil
}

type reviewRepository struct {
	db *persistence.SQLite
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.ProblemReview) error {
	const query = `
        INSERT INTO problem_reviews (problem_id, response)
        VALUES (?, ?)
        RETURNING id, created_at`

	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			review.ID = stmt.GetInt64("id")
			review.CreatedAt = unixTime(stmt, "created_at")
			return nil
		}, review.ProblemID, review.Response)
	})
	return translateError("reviewRepository.Create", err)
}

func (r *reviewRepository) ListByProblem(ctx context.Context, problemID int64) ([]domain.ProblemReview, error) {
	const query = `
        SELECT id, problem_id, COALESCE(response, '') AS response, created_at
        FROM problem_reviews WHERE problem_id = ? ORDER BY id ASC`

	result := []domain.ProblemReview{}
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			result = append(result, domain.ProblemReview{
				ID:        stmt.GetInt64("id"),
				ProblemID: stmt.GetInt64("problem_id"),
				Response:  stmt.GetText("response"),
				CreatedAt: unixTime(stmt, "created_at"),
			})
			return nil
		}, problemID)
	})
	if err != nil {
		return nil, translateError("reviewRepository.ListByProblem", err)
	}
	return result, nil
}
