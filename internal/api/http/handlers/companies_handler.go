package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-registry/internal/api/dto"
	"github.com/spec-kit/account-registry/internal/service"
)

// CompaniesHandler covers company self-service and the approval queue.
type CompaniesHandler struct {
	identity *service.IdentityService
	approval *service.ApprovalService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(identity *service.IdentityService, approval *service.ApprovalService) *CompaniesHandler {
	return &CompaniesHandler{identity: identity, approval: approval}
}

// Register handles POST /company/register.
func (h *CompaniesHandler) Register(c *fiber.Ctx) error {
	var req dto.CompanyCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.identity.RegisterCompany(c.UserContext(), req.Name, req.Password); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Company registered successfully"})
}

// Login handles POST /company/login.
func (h *CompaniesHandler) Login(c *fiber.Ctx) error {
	var req dto.CompanyCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id, err := h.identity.LoginCompany(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.CompanyLoginResponse{Message: "Company logged in successfully", CompanyID: id})
}

// AwaitingApproval handles GET /companies/awaiting_approval.
func (h *CompaniesHandler) AwaitingApproval(c *fiber.Ctx) error {
	names, err := h.approval.ListUnapprovedCompanies(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(names)
}

// Approve handles POST /companies/approve.
func (h *CompaniesHandler) Approve(c *fiber.Ctx) error {
	var req dto.CompanyDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.approval.ApproveCompany(c.UserContext(), int64(req.CompanyID)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Company approved successfully"})
}

// Reject handles POST /companies/reject.
func (h *CompaniesHandler) Reject(c *fiber.Ctx) error {
	var req dto.CompanyDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.approval.RejectCompany(c.UserContext(), int64(req.CompanyID)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Company rejected successfully"})
}
