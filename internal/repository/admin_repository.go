package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-registry/internal/domain"
)

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		admin.Username,
		admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	return translatePgError("adminRepository.Create", err)
}

func (r *adminRepository) ListUsernames(ctx context.Context) ([]string, error) {
	const query = `SELECT username FROM admin_users ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translatePgError("adminRepository.ListUsernames", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, translatePgError("adminRepository.ListUsernames", err)
		}
		result = append(result, username)
	}
	return result, translatePgError("adminRepository.ListUsernames", rows.Err())
}
