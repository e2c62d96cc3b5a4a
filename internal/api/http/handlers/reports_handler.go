package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/service"
)

// ReportsHandler serves the admin dashboard.
type ReportsHandler struct {
	reports *service.ReportService
	tickets *service.TicketService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService, tickets *service.TicketService) *ReportsHandler {
	return &ReportsHandler{reports: reports, tickets: tickets}
}

// Dashboard GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:          dash.Total,
		Pending:        dash.Pending,
		CompletedToday: dash.CompletedToday,
		DelayedCount:   dash.DelayedCount,
		Delayed:        ticketResponses(dash.Delayed, h.tickets.IsDelayed),
		ByLine:         namedCounts(dash.ByLine),
		TopSymptoms:    namedCounts(dash.TopSymptoms),
		GeneratedAt:    dash.GeneratedAt,
	}})
}

// Delayed GET /reports/delayed.
func (h *ReportsHandler) Delayed(c *fiber.Ctx) error {
	delayed, err := h.reports.Delayed(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(delayed, h.tickets.IsDelayed)})
}

func namedCounts(in []service.NamedCount) []dto.NamedCount {
	out := make([]dto.NamedCount, 0, len(in))
	for _, nc := range in {
		out = append(out, dto.NamedCount{Name: nc.Name, Count: nc.Count})
	}
	return out
}
