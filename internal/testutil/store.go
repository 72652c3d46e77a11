// Package testutil holds helpers shared by the package test suites.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
	"github.com/spec-kit/account-registry/internal/repository/sqlitestore"
)

// OpenSQLite opens a migrated SQLite database in a per-test temp dir. The
// pool is closed when the test ends.
func OpenSQLite(t testing.TB) *persistence.SQLite {
	t.Helper()

	logger := zap.NewNop()
	db, err := persistence.NewSQLite(config.SQLiteConfig{
		Path:     filepath.Join(t.TempDir(), "registry.db"),
		PoolSize: 4,
	}, logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(db.Close)

	if err := persistence.RunSQLiteMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// Store returns repositories backed by a fresh SQLite database.
func Store(t testing.TB) *repository.Store {
	t.Helper()
	return sqlitestore.NewStore(OpenSQLite(t))
}
