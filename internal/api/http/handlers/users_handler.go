package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-registry/internal/api/dto"
	"github.com/spec-kit/account-registry/internal/service"
)

// UsersHandler exposes auth endpoints for end-users.
type UsersHandler struct {
	identity *service.IdentityService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(identity *service.IdentityService) *UsersHandler {
	return &UsersHandler{identity: identity}
}

// Register handles POST /user/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.identity.RegisterUser(c.UserContext(), req.Username, req.Password); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /user/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id, err := h.identity.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserLoginResponse{Message: "User logged in successfully", UserID: id})
}
