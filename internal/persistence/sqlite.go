package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/spec-kit/account-registry/internal/config"
)

// Applied to every pooled connection. foreign_keys must be set per
// connection and outside a transaction.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=FULL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
	"PRAGMA temp_store=MEMORY",
}

// SQLite wraps a zombiezen connection pool.
type SQLite struct {
	pool   *sqlitex.Pool
	path   string
	logger *zap.Logger
}

// NewSQLite opens (creating if needed) the database file at cfg.Path.
func NewSQLite(cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareSQLiteConn,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", cfg.Path, err)
	}

	logger.Info("opened sqlite", zap.String("path", cfg.Path), zap.Int("pool_size", poolSize))
	return &SQLite{pool: pool, path: cfg.Path, logger: logger}, nil
}

func prepareSQLiteConn(conn *sqlite.Conn) error {
	for _, pragma := range sqlitePragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	return nil
}

// Take borrows a connection; the caller must Put it back.
func (s *SQLite) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool.
func (s *SQLite) Put(conn *sqlite.Conn) {
	s.pool.Put(conn)
}

// Ping verifies a connection can be taken and queried.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return errors.New("sqlite not configured")
	}
	conn, err := s.Take(ctx)
	if err != nil {
		return err
	}
	defer s.Put(conn)
	return sqlitex.ExecuteTransient(conn, "SELECT 1", nil)
}

// Close releases pool resources. Blocks until borrowed connections are returned.
func (s *SQLite) Close() {
	if s == nil || s.pool == nil {
		return
	}
	if err := s.pool.Close(); err != nil {
		s.logger.Error("sqlite close", zap.String("path", s.path), zap.Error(err))
	}
}
