package routes

import (
	"smart-apply/internal/delivery/http/handler"
	"smart-apply/internal/delivery/http/middleware"
	"smart-apply/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health    *handler.HealthHandler
	Apply     *handler.ApplyHandler
	Applicant *handler.ApplicantHandler
	User      *handler.UserHandler
	Company   *handler.CompanyHandler
	WS        *ws.Handler
	Auth      *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	app.Get("/ws/applications", r.WS.HandleApplicationsWS)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	r.Company.RegisterAuthRoutes(v1)

	applicant := v1.Group("", r.Auth.RequireApplicant())
	r.Apply.RegisterRoutes(applicant)
	r.User.RegisterRoutes(applicant)

	recruiter := v1.Group("", r.Auth.RequireCompany())
	r.Applicant.RegisterRoutes(recruiter)
	r.Company.RegisterProtectedRoutes(recruiter)
}
