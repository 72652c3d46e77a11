package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

type migration struct {
	name string
	sql  string
}

// loadMigrations returns the engine's migration scripts in filename order.
// Every script is idempotent and all of them run on each startup.
func loadMigrations(engine string) ([]migration, error) {
	dir := path.Join("migrations", engine)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}

	sort.Strings(filenames)

	result := make([]migration, 0, len(filenames))
	for _, name := range filenames {
		content, err := fs.ReadFile(migrationFS, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		result = append(result, migration{name: name, sql: string(content)})
	}
	return result, nil
}

// RunMigrations executes the embedded Postgres migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	migrations, err := loadMigrations("postgres")
	if err != nil {
		return err
	}

	for _, m := range migrations {
		logger.Info("applying migration", zap.String("engine", "postgres"), zap.String("file", m.name))
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}

// RunSQLiteMigrations executes the embedded SQLite migrations on one pooled connection.
func RunSQLiteMigrations(ctx context.Context, db *SQLite, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no sqlite pool available; skipping migrations")
		return nil
	}

	migrations, err := loadMigrations("sqlite")
	if err != nil {
		return err
	}

	conn, err := db.Take(ctx)
	if err != nil {
		return err
	}
	defer db.Put(conn)

	for _, m := range migrations {
		logger.Info("applying migration", zap.String("engine", "sqlite"), zap.String("file", m.name))
		if err := sqlitex.ExecuteScript(conn, m.sql, nil); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(migrations)))
	return nil
}
