package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-registry/internal/domain"
)

// CompanyRepository persists companies and their approval flag.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByName(ctx context.Context, name string) (*domain.Company, error)
	ListUnapproved(ctx context.Context) ([]domain.Company, error)
	// Approve sets approved=true in one statement. Approving an approved
	// company succeeds; a missing id yields ErrNotFound.
	Approve(ctx context.Context, id int64) error
	// DeletePending removes the company only while it is still unapproved.
	// ErrNotFound covers both a missing id and an approved company.
	DeletePending(ctx context.Context, id int64) error
}

// UserRepository defines persistence access for end-users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	ListUsernames(ctx context.Context) ([]string, error)
}

// ProblemRepository manages user problems.
type ProblemRepository interface {
	Create(ctx context.Context, problem *domain.UserProblem) error
	GetByID(ctx context.Context, id int64) (*domain.UserProblem, error)
	List(ctx context.Context) ([]domain.UserProblem, error)
}

// ReviewRepository manages problem reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.ProblemReview) error
	ListByProblem(ctx context.Context, problemID int64) ([]domain.ProblemReview, error)
}

// Store bundles the repositories of one storage backend. It is built once at
// startup and handed to the services.
type Store struct {
	Companies CompanyRepository
	Users     UserRepository
	Admins    AdminRepository
	Problems  ProblemRepository
	Reviews   ReviewRepository
}

// NewPostgresStore wires the Postgres repositories on a shared pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Companies: NewCompanyRepository(pool),
		Users:     NewUserRepository(pool),
		Admins:    NewAdminRepository(pool),
		Problems:  NewProblemRepository(pool),
		Reviews:   NewReviewRepository(pool),
	}
}
