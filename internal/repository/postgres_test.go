package repository_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/persistence"
	"github.com/spec-kit/account-registry/internal/repository"
)

// openPostgres connects to POSTGRES_TEST_DSN or skips the test.
func openPostgres(t *testing.T) *repository.Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	logger := zap.NewNop()
	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pg.Close)

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewPostgresStore(pg.PoolHandle())
}

// The database is shared between runs, so names carry a random suffix.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func TestPostgresCompanyWorkflow(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()

	company := &domain.Company{Name: uniqueName("acme"), PasswordHash: "hash"}
	if err := store.Companies.Create(ctx, company); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Companies.Create(ctx, &domain.Company{Name: company.Name, PasswordHash: "x"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate Create = %v, want ErrDuplicate", err)
	}
	if err := store.Companies.Approve(ctx, company.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := store.Companies.Approve(ctx, company.ID); err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if err := store.Companies.DeletePending(ctx, company.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("DeletePending(approved) = %v, want ErrNotFound", err)
	}
}

func TestPostgresProblemForeignKeys(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()

	if err := store.Problems.Create(ctx, &domain.UserProblem{Description: "orphan", UserID: -1}); !errors.Is(err, repository.ErrMissingReference) {
		t.Fatalf("orphan problem = %v, want ErrMissingReference", err)
	}

	user := &domain.User{Username: uniqueName("alice"), PasswordHash: "hash"}
	if err := store.Users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	problem := &domain.UserProblem{Description: "printer broken", UserID: user.ID}
	if err := store.Problems.Create(ctx, problem); err != nil {
		t.Fatalf("create problem: %v", err)
	}
	if err := store.Reviews.Create(ctx, &domain.ProblemReview{ProblemID: problem.ID, Response: "ok"}); err != nil {
		t.Fatalf("create review: %v", err)
	}
	reviews, err := store.Reviews.ListByProblem(ctx, problem.ID)
	if err != nil {
		t.Fatalf("ListByProblem: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews = %+v, want 1", reviews)
	}
}

func TestPostgresLongIdentifiers(t *testing.T) {
	store := openPostgres(t)
	ctx := context.Background()

	long := uniqueName(strings.Repeat("n", 300))
	if err := store.Users.Create(ctx, &domain.User{Username: long, PasswordHash: "hash"}); err != nil {
		t.Fatalf("user with %d-byte name: %v", len(long), err)
	}
	if err := store.Companies.Create(ctx, &domain.Company{Name: long, PasswordHash: "hash"}); err != nil {
		t.Fatalf("company with %d-byte name: %v", len(long), err)
	}
	if err := store.Admins.Create(ctx, &domain.AdminUser{Username: long, PasswordHash: "hash"}); err != nil {
		t.Fatalf("admin with %d-byte name: %v", len(long), err)
	}
	got, err := store.Users.GetByUsername(ctx, long)
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.Username != long {
		t.Errorf("username truncated to %d bytes", len(got.Username))
	}
}
