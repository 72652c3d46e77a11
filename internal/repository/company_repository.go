package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-registry/internal/domain"
)

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, password_hash, approved)
        VALUES ($1, $2, FALSE)
        RETURNING id, approved, created_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name,
		company.PasswordHash,
	).Scan(&company.ID, &company.Approved, &company.CreatedAt)
	return translatePgError("companyRepository.Create", err)
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	const query = `
        SELECT id, name, password_hash, approved, created_at
        FROM companies WHERE id=$1`

	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.PasswordHash,
		&company.Approved,
		&company.CreatedAt,
	); err != nil {
		return nil, translatePgError("companyRepository.GetByID", err)
	}
	return &company, nil
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	const query = `
        SELECT id, name, password_hash, approved, created_at
        FROM companies WHERE name=$1`

	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&company.ID,
		&company.Name,
		&company.PasswordHash,
		&company.Approved,
		&company.CreatedAt,
	); err != nil {
		return nil, translatePgError("companyRepository.GetByName", err)
	}
	return &company, nil
}

func (r *companyRepository) ListUnapproved(ctx context.Context) ([]domain.Company, error) {
	const query = `
        SELECT id, name, password_hash, approved, created_at
        FROM companies WHERE approved=FALSE ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translatePgError("companyRepository.ListUnapproved", err)
	}
	defer rows.Close()

	result := []domain.Company{}
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.PasswordHash,
			&company.Approved,
			&company.CreatedAt,
		); err != nil {
			return nil, translatePgError("companyRepository.ListUnapproved", err)
		}
		result = append(result, company)
	}
	return result, translatePgError("companyRepository.ListUnapproved", rows.Err())
}

func (r *companyRepository) Approve(ctx context.Context, id int64) error {
	const query = `UPDATE companies SET approved=TRUE WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return translatePgError("companyRepository.Approve", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *companyRepository) DeletePending(ctx context.Context, id int64) error {
	const query = `DELETE FROM companies WHERE id=$1 AND approved=FALSE`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return translatePgError("companyRepository.DeletePending", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
