package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/repository"
	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

// ApprovalService moves companies out of the pending state. Approve is the
// only way forward; reject deletes a pending company outright.
type ApprovalService struct {
	companies  repository.CompanyRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ApprovalDependencies bundles requirements for the approval service.
type ApprovalDependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	return &ApprovalService{
		companies:  deps.Store.Companies,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// ListUnapprovedCompanies returns the names of pending companies.
func (s *ApprovalService) ListUnapprovedCompanies(ctx context.Context) ([]string, error) {
	companies, err := s.companies.ListUnapproved(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	names := make([]string, 0, len(companies))
	for _, company := range companies {
		names = append(names, company.Name)
	}
	return names, nil
}

// ApproveCompany marks the company approved. Repeating it is a no-op success.
func (s *ApprovalService) ApproveCompany(ctx context.Context, companyID int64) error {
	if companyID <= 0 {
		return apperrors.NewValidationError("company_id is required", nil)
	}
	if err := s.companies.Approve(ctx, companyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return companyNotFound(companyID)
		}
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("company approved", zap.Int64("company_id", companyID))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventCompanyApproved,
		Subject: events.SubjectCompany(companyID),
	})
	return nil
}

// RejectCompany permanently deletes a pending company. Approved companies
// cannot be rejected.
func (s *ApprovalService) RejectCompany(ctx context.Context, companyID int64) error {
	if companyID <= 0 {
		return apperrors.NewValidationError("company_id is required", nil)
	}
	err := s.companies.DeletePending(ctx, companyID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		// The delete is already decided; this read only picks the error.
		if _, lookupErr := s.companies.GetByID(ctx, companyID); lookupErr == nil {
			return apperrors.NewConflict("company already approved", map[string]any{"company_id": companyID})
		} else if !errors.Is(lookupErr, repository.ErrNotFound) {
			return apperrors.NewInternalError(lookupErr)
		}
		return companyNotFound(companyID)
	default:
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("company rejected", zap.Int64("company_id", companyID))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventCompanyRejected,
		Subject: events.SubjectCompany(companyID),
	})
	return nil
}

func companyNotFound(id int64) error {
	return apperrors.NewNotFound("company", map[string]any{"company_id": id})
}
