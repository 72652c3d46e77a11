package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

// parseBody decodes the request body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
