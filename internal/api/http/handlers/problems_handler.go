package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-registry/internal/api/dto"
	"github.com/spec-kit/account-registry/internal/service"
	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

// ProblemsHandler exposes problem submission and admin review endpoints.
type ProblemsHandler struct {
	tickets *service.TicketService
}

// NewProblemsHandler constructs handler.
func NewProblemsHandler(tickets *service.TicketService) *ProblemsHandler {
	return &ProblemsHandler{tickets: tickets}
}

// Submit handles POST /problems/submit.
func (h *ProblemsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitProblemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.tickets.SubmitProblem(c.UserContext(), req.Description, int64(req.UserID)); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Problem submitted successfully"})
}

// List handles GET /problems.
func (h *ProblemsHandler) List(c *fiber.Ctx) error {
	descriptions, err := h.tickets.ListProblemDescriptions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(descriptions)
}

// AdminList handles GET /admin/problems.
func (h *ProblemsHandler) AdminList(c *fiber.Ctx) error {
	problems, err := h.tickets.ListProblemsWithIDs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProblemSummaries(problems))
}

// Review handles POST /admin/review.
func (h *ProblemsHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewProblemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.tickets.ReviewProblem(c.UserContext(), int64(req.ProblemID), req.Response); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Problem reviewed successfully"})
}

// Reviews handles GET /admin/problems/:id/reviews.
func (h *ProblemsHandler) Reviews(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.NewValidationError("problem id must be a number", nil)
	}
	reviews, err := h.tickets.ListReviews(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReviewResponses(reviews))
}
