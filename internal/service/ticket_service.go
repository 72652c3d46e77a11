package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/account-registry/internal/domain"
	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/repository"
	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

const previewLength = 120

// TicketService coordinates problem submission and review.
type TicketService struct {
	problems   repository.ProblemRepository
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		problems:   deps.Store.Problems,
		reviews:    deps.Store.Reviews,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// SubmitProblem records a problem for userID. The user must exist.
func (s *TicketService) SubmitProblem(ctx context.Context, description string, userID int64) (int64, error) {
	if description == "" || userID <= 0 {
		return 0, apperrors.NewValidationError("description and user_id are required", nil)
	}

	problem := &domain.UserProblem{Description: description, UserID: userID}
	if err := s.problems.Create(ctx, problem); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return 0, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return 0, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventProblemSubmitted,
		Subject: events.SubjectProblem(problem.ID),
		Payload: events.ProblemSubmittedPayload{
			UserID:             userID,
			DescriptionPreview: events.Preview(description, previewLength),
		},
	})
	return problem.ID, nil
}

// ListProblemDescriptions returns every problem's description.
func (s *TicketService) ListProblemDescriptions(ctx context.Context) ([]string, error) {
	problems, err := s.problems.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	descriptions := make([]string, 0, len(problems))
	for _, problem := range problems {
		descriptions = append(descriptions, problem.Description)
	}
	return descriptions, nil
}

// ListProblemsWithIDs returns every problem including its id, for admins.
func (s *TicketService) ListProblemsWithIDs(ctx context.Context) ([]domain.UserProblem, error) {
	problems, err := s.problems.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return problems, nil
}

// ReviewProblem attaches an administrator response to a problem.
func (s *TicketService) ReviewProblem(ctx context.Context, problemID int64, response string) (int64, error) {
	if problemID <= 0 || response == "" {
		return 0, apperrors.NewValidationError("problem_id and response are required", nil)
	}

	review := &domain.ProblemReview{ProblemID: problemID, Response: response}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return 0, problemNotFound(problemID)
		}
		return 0, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventProblemReviewed,
		Subject: events.SubjectProblem(problemID),
		Payload: events.ProblemReviewedPayload{
			ReviewID:        review.ID,
			ResponsePreview: events.Preview(response, previewLength),
		},
	})
	return review.ID, nil
}

// ListReviews returns the reviews attached to a problem, oldest first.
func (s *TicketService) ListReviews(ctx context.Context, problemID int64) ([]domain.ProblemReview, error) {
	if problemID <= 0 {
		return nil, apperrors.NewValidationError("problem_id is required", nil)
	}
	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, problemNotFound(problemID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	reviews, err := s.reviews.ListByProblem(ctx, problemID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return reviews, nil
}

func problemNotFound(id int64) error {
	return apperrors.NewNotFound("problem", map[string]any{"problem_id": id})
}
