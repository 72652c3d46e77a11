package sqlitestore

import (
	"context"

	"zombiezen.com/go/sqlite"

	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
)

type userRepository struct {
	db *persistence.SQLite
}

func scanUser(stmt *sqlite.Stmt) *domain.User {
	return &domain.User{
		ID:           stmt.GetInt64("id"),
		Username:     stmt.GetText("username"),
		PasswordHash: stmt.GetText("password_hash"),
		CreatedAt:    unixTime(stmt, "created_at"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash)
        VALUES (?, ?)
        RETURNING id, created_at`

	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			user.ID = stmt.GetInt64("id")
			user.CreatedAt = unixTime(stmt, "created_at")
			return nil
		}, user.Username, user.PasswordHash)
	})
	return translateError("userRepository.Create", err)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
			func(stmt *sqlite.Stmt) error {
				user = scanUser(stmt)
				return nil
			}, username)
	})
	if err != nil {
		return nil, translateError("userRepository.GetByUsername", err)
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

type adminRepository struct {
	db *persistence.SQLite
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (username, password_hash)
        VALUES (?, ?)
        RETURNING id, created_at`

	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, query, func(stmt *sqlite.Stmt) error {
			admin.ID = stmt.GetInt64("id")
			admin.CreatedAt = unixTime(stmt, "created_at")
			return nil
		}, admin.Username, admin.PasswordHash)
	})
	return translateError("adminRepository.Create", err)
}

func (r *adminRepository) ListUsernames(ctx context.Context) ([]string, error) {
	result := []string{}
	err := withConn(ctx, r.db, func(conn *sqlite.Conn) error {
		return exec(conn, `SELECT username FROM admin_users ORDER BY id ASC`,
			func(stmt *sqlite.Stmt) error {
				result = append(result, stmt.ColumnText(0))
				return nil
			})
	})
	if err != nil {
		return nil, translateError("adminRepository.ListUsernames", err)
	}
	return result, nil
}
