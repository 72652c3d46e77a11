package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

// Capability names an operation class that an Authorizer may gate.
type Capability string

const (
	CapabilityReviewCompanies Capability = "companies:review"
	CapabilityManageAdmins    Capability = "admins:manage"
	CapabilityReviewProblems  Capability = "problems:review"
)

// Authorizer decides whether a caller holding the given Authorization header
// value may use capability. It returns nil to allow, or a DomainError.
type Authorizer interface {
	Authorize(ctx context.Context, authorization string, capability Capability) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, authorization string, capability Capability) error

func (f AuthorizerFunc) Authorize(ctx context.Context, authorization string, capability Capability) error {
	return f(ctx, authorization, capability)
}

// AllowAll lets every caller through. It is the default; the admin routes
// have never required credentials.
var AllowAll Authorizer = AuthorizerFunc(func(context.Context, string, Capability) error { return nil })

// TokenAuthorizer requires a bearer token whose capabilities claim includes
// the requested capability.
type TokenAuthorizer struct {
	tokens *TokenVerifier
}

// NewTokenAuthorizer constructs a TokenAuthorizer.
func NewTokenAuthorizer(tokens *TokenVerifier) *TokenAuthorizer {
	return &TokenAuthorizer{tokens: tokens}
}

// Authorize implements Authorizer.
func (a *TokenAuthorizer) Authorize(_ context.Context, authorization string, capability Capability) error {
	if authorization == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := a.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if !claims.Has(capability) {
		return apperrors.NewForbidden("missing capability " + string(capability))
	}
	return nil
}

// Require gates a route on capability.
func Require(authorizer Authorizer, capability Capability) fiber.Handler {
	if authorizer == nil {
		authorizer = AllowAll
	}
	return func(c *fiber.Ctx) error {
		if err := authorizer.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), capability); err != nil {
			return err
		}
		return c.Next()
	}
}
