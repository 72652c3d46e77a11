package sqlitestore

import (
	"context"

	"zombiezen.com/go/sqlite"

	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
)

const companyColumns = `id, name, password_hash, approved, created_at`

type companyRepository struct {
	db *persistence.SQLite
}

func scanCompany(stmt *sqlite.Stmt) domain.Company {
	return domain.Company{
		ID:           stmt.GetInt64("id"),
		Name:         stmt.GetText("name"),
		PasswordHash: stmt.GetText("password_hash"),
		Approved:     stmt.GetInt64("approved") != 0,
		CreatedAt:    unixTime(stmt, "created_at"),
	}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, password_hash, approved)
        VALUES (?, ?, 0)
        RETURNING id, created_at`

	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			company.ID = stmt.GetInt64("id")
			company.CreatedAt = unixTime(stmt, "created_at")
			return nil
		}, company.Name, company.PasswordHash)
	})
	if err != nil {
		return translateError("companyRepository.Create", err)
	}
	company.Approved = false
	return nil
}

func (r *companyRepository) getOne(ctx context.Context, op, query string, arg any) (*domain.Company, error) {
	var found *domain.Company
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			company := scanCompany(stmt)
			found = &company
			return nil
		}, arg)
	})
	if err != nil {
		return nil, translateError(op, err)
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return r.getOne(ctx, "companyRepository.GetByID",
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	return r.getOne(ctx, "companyRepository.GetByName",
		`SELECT `+companyColumns+` FROM companies WHERE name = ?`, name)
}

func (r *companyRepository) ListUnapproved(ctx context.Context) ([]domain.Company, error) {
	result := []domain.Company{}
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, `SELECT `+companyColumns+` FROM companies WHERE approved = 0 ORDER BY id ASC`,
			func(stmt *sqlite.Stmt) error {
				result = append(result, scanCompany(stmt))
				return nil
			})
	})
	if err != nil {
		return nil, translateError("companyRepository.ListUnapproved", err)
	}
	return result, nil
}

func (r *companyRepository) Approve(ctx context.Context, id int64) error {
	return r.changeOne(ctx, "companyRepository.Approve",
		`UPDATE companies SET approved = 1 WHERE id = ?`, id)
}

func (r *companyRepository) DeletePending(ctx context.Context, id int64) error {
	return r.changeOne(ctx, "companyRepository.DeletePending",
		`DELETE FROM companies WHERE id = ? AND approved = 0`, id)
}

// changeOne runs a single-row UPDATE or DELETE and reports ErrNotFound when
// the WHERE clause matched nothing.
func (r *companyRepository) changeOne(ctx context.Context, op, query string, id int64) error {
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		if err := exec(conn, query, nil, id); err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	return translateError(op, err)
}
