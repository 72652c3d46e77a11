package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-registry/internal/api/http/handlers"
	"github.com/spec-kit/account-registry/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Companies  *handlers.CompaniesHandler
	Admins     *handlers.AdminsHandler
	Problems   *handlers.ProblemsHandler
	Authorizer auth.Authorizer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	reviewCompanies := auth.Require(cfg.Authorizer, auth.CapabilityReviewCompanies)
	manageAdmins := auth.Require(cfg.Authorizer, auth.CapabilityManageAdmins)
	reviewProblems := auth.Require(cfg.Authorizer, auth.CapabilityReviewProblems)

	app.Post("/user/register", cfg.Users.Register)
	app.Post("/user/login", cfg.Users.Login)

	app.Post("/company/register", cfg.Companies.Register)
	app.Post("/company/login", cfg.Companies.Login)

	companies := app.Group("/companies", reviewCompanies)
	companies.Get("/awaiting_approval", cfg.Companies.AwaitingApproval)
	companies.Post("/approve", cfg.Companies.Approve)
	companies.Post("/reject", cfg.Companies.Reject)

	app.Post("/admin/create", manageAdmins, cfg.Admins.Create)
	app.Get("/admin", manageAdmins, cfg.Admins.List)

	app.Post("/problems/submit", cfg.Problems.Submit)
	app.Get("/problems", cfg.Problems.List)

	app.Get("/admin/problems", reviewProblems, cfg.Problems.AdminList)
	app.Get("/admin/problems/:id/reviews", reviewProblems, cfg.Problems.Reviews)
	app.Post("/admin/review", reviewProblems, cfg.Problems.Review)
}
