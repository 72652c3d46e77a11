package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-registry/internal/api/dto"
	"github.com/spec-kit/account-registry/internal/service"
)

// AdminsHandler manages administrator accounts.
type AdminsHandler struct {
	identity *service.IdentityService
}

func NewAdminsHandler(identity *service.IdentityService) *AdminsHandler {
	return &AdminsHandler{identity: identity}
}

// Create handles POST /admin/create.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.identity.CreateAdmin(c.UserContext(), req.Username, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Admin created successfully"})
}

// List handles GET /admin.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	names, err := h.identity.ListAdminUsernames(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(names)
}
