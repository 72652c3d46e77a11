package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/auth"
	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/repository"
	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

// IdentityService handles registration, login and admin creation for the
// three credential tables.
type IdentityService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	admins     repository.AdminRepository
	verifier   *auth.PasswordVerifier
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IdentityDependencies encapsulates requirements for the identity service.
type IdentityDependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.AuthConfig, deps IdentityDependencies) (*IdentityService, error) {
	verifier, err := auth.NewPasswordVerifier(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &IdentityService{
		users:      deps.Store.Users,
		companies:  deps.Store.Companies,
		admins:     deps.Store.Admins,
		verifier:   verifier,
		bcryptCost: cfg.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}, nil
}

// RegisterUser creates a new end-user account.
func (s *IdentityService) RegisterUser(ctx context.Context, username, password string) (int64, error) {
	if err := requireCredentials("username", username, password); err != nil {
		return 0, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return 0, err
	}

	user := &domain.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperrors.NewConflict("username already exists", nil)
		}
		return 0, apperrors.NewInternalError(err)
	}
	return user.ID, nil
}

// LoginUser authenticates an end-user and returns its id.
func (s *IdentityService) LoginUser(ctx context.Context, username, password string) (int64, error) {
	if err := requireCredentials("username", username, password); err != nil {
		return 0, err
	}

	var id int64
	var hash string
	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		id, hash = user.ID, user.PasswordHash
	case !errors.Is(err, repository.ErrNotFound):
		return 0, apperrors.NewInternalError(err)
	}

	if !s.verifier.Verify(hash, password) {
		return 0, apperrors.NewUnauthorized("invalid username or password")
	}
	return id, nil
}

// RegisterCompany creates a company that awaits approval.
func (s *IdentityService) RegisterCompany(ctx context.Context, name, password string) (int64, error) {
	if err := requireCredentials("name", name, password); err != nil {
		return 0, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return 0, err
	}

	company := &domain.Company{Name: name, PasswordHash: hash}
	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperrors.NewConflict("company name already exists", nil)
		}
		return 0, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventCompanyRegistered,
		Subject: events.SubjectCompany(company.ID),
		Payload: events.CompanyPayload{Name: company.Name},
	})
	return company.ID, nil
}

// LoginCompany authenticates a company. Approval is not checked: pending
// companies may log in.
func (s *IdentityService) LoginCompany(ctx context.Context, name, password string) (int64, error) {
	if err := requireCredentials("name", name, password); err != nil {
		return 0, err
	}

	var id int64
	var hash string
	company, err := s.companies.GetByName(ctx, name)
	switch {
	case err == nil:
		id, hash = company.ID, company.PasswordHash
	case !errors.Is(err, repository.ErrNotFound):
		return 0, apperrors.NewInternalError(err)
	}

	if !s.verifier.Verify(hash, password) {
		return 0, apperrors.NewUnauthorized("invalid name or password")
	}
	return id, nil
}

// CreateAdmin creates an administrator account.
func (s *IdentityService) CreateAdmin(ctx context.Context, username, password string) (int64, error) {
	if err := requireCredentials("username", username, password); err != nil {
		return 0, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return 0, err
	}

	admin := &domain.AdminUser{Username: username, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperrors.NewConflict("admin username already exists", nil)
		}
		return 0, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin created", zap.Int64("admin_id", admin.ID))
	return admin.ID, nil
}

// ListAdminUsernames returns every admin username in creation order.
func (s *IdentityService) ListAdminUsernames(ctx context.Context) ([]string, error) {
	names, err := s.admins.ListUsernames(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return names, nil
}

func (s *IdentityService) hash(password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

// requireCredentials rejects an empty identifier or password.
func requireCredentials(field, identifier, password string) error {
	var missing []string
	if identifier == "" {
		missing = append(missing, field)
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError(field+" and password are required", map[string]any{"missing": missing})
}
