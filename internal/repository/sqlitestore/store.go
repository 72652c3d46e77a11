// Package sqlitestore implements the repository interfaces on an embedded SQLite
// database. It is the default engine and the one the test suites run against.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
)

// NewStore wires the SQLite repositories on a shared pool.
func NewStore(db *persistence.SQLite) *repository.Store {
	return &repository.Store{
		Companies: &companyRepository{db: db},
		Users:     &userRepository{db: db},
		Admins:    &adminRepository{db: db},
		Problems:  &problemRepository{db: db},
		Reviews:   &reviewRepository{db: db},
	}
}

// withConn borrows a connection for the duration of fn.
func withConn(ctx context.Context, db *persistence.SQLite, fn func(conn *sqlite.Conn) error) error {
	conn, err := db.Take(ctx)
	if err != nil {
		return err
	}
	defer db.Put(conn)
	return fn(conn)
}

// exec runs a single cached statement. rowFn is called once per result row.
func exec(conn *sqlite.Conn, query string, rowFn func(stmt *sqlite.Stmt) error, args ...any) error {
	return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args:       args,
		ResultFunc: rowFn,
	})
}

func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch sqlite.ErrCode(err) {
	case sqlite.ResultConstraintUnique, sqlite.ResultConstraintPrimaryKey:
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
	case sqlite.ResultConstraintForeignKey:
		return fmt.Errorf("%s: %w", op, repository.ErrMissingReference)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unixTime(stmt *sqlite.Stmt, col string) time.Time {
	return time.Unix(stmt.GetInt64(col), 0).UTC()
}
