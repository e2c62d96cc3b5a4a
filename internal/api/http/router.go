package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/maintenance-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	Notifications  *handlers.NotificationsHandler
	Staff          *handlers.StaffHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authenticated := cfg.AuthMiddleware.Handle
	production := auth.RequireRole(domain.SubjectRoleProduction)
	maintenance := auth.RequireRole(domain.SubjectRoleMaintenance)
	admin := auth.RequireRole()

	tickets := app.Group("/tickets", authenticated)
	tickets.Post("/", production, cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/status", maintenance, cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/additional-info", production, cfg.Tickets.SubmitAdditionalInfo)

	reports := app.Group("/reports", authenticated, admin)
	reports.Get("/dashboard", cfg.Reports.Dashboard)
	reports.Get("/delayed", cfg.Reports.Delayed)

	app.Get("/notifications", authenticated, cfg.Notifications.List)

	staff := app.Group("/staff", authenticated, admin)
	staff.Get("/on-duty", cfg.Staff.OnDuty)
	staff.Get("/", cfg.Staff.ListStaff)
	staff.Post("/", cfg.Staff.CreateStaff)
	staff.Put("/:id", cfg.Staff.UpdateStaff)
	staff.Put("/:id/schedule", cfg.Staff.PaintSchedule)

	settings := app.Group("/settings", authenticated)
	settings.Get("/shifts", cfg.Settings.GetShifts)
	settings.Put("/shifts", admin, cfg.Settings.UpdateShifts)
	app.Get("/master-data", authenticated, cfg.Settings.MasterData)
}
