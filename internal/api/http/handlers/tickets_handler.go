package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// TicketsHandler serves the maintenance request lifecycle.
type TicketsHandler struct {
	tickets *service.TicketService
	reports *service.ReportService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, reports *service.ReportService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, reports: reports}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Machine) == "" || strings.TrimSpace(req.Symptom) == "" {
		return apperrors.NewValidationError("machine and symptom required", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), service.TicketDraft{
		Line:            req.Line,
		Machine:         req.Machine,
		Symptom:         req.Symptom,
		SymptomCategory: req.SymptomCategory,
		Description:     req.Description,
		Applicant:       principal.Name,
		Priority:        req.Priority,
		BeforePhotos:    req.BeforePhotos,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket, h.tickets.IsDelayed)})
}

// ListTickets GET /tickets?tab=&q=&sort=&order=&page=&page_size=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page, err := h.reports.ListTickets(c.UserContext(), service.TicketQuery{
		Tab:       service.TicketTab(strings.ToUpper(strings.TrimSpace(c.Query("tab")))),
		Search:    c.Query("q"),
		SortBy:    repository.TicketSort(c.Query("sort")),
		Ascending: strings.EqualFold(c.Query("order"), "asc"),
		Page:      parseIntQuery(c, "page", 1),
		PageSize:  parseIntQuery(c, "page_size", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketPageResponse{
		Items:      ticketResponses(page.Items, h.tickets.IsDelayed),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket, h.tickets.IsDelayed)})
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TransitionInput{
		TicketID:    c.Params("id"),
		NextStatus:  req.Status,
		Note:        req.Note,
		UpdaterName: principal.Name,
		AfterPhotos: req.AfterPhotos,
	}
	if req.CompletionReport != nil {
		input.Completion = &service.CompletionInput{
			ActionDetails: req.CompletionReport.ActionDetails,
			Parts:         req.CompletionReport.Parts,
			WorkDuration:  req.CompletionReport.WorkDuration,
		}
	}
	ticket, err := h.tickets.Transition(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket, h.tickets.IsDelayed)})
}

// SubmitAdditionalInfo POST /tickets/:id/additional-info.
func (h *TicketsHandler) SubmitAdditionalInfo(c *fiber.Ctx) error {
	var req dto.AdditionalInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.SubmitAdditionalInfo(c.UserContext(), c.Params("id"), service.AdditionalInfoInput{
		Symptoms: req.Symptoms,
		Text:     req.Text,
		Photos:   req.Photos,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket, h.tickets.IsDelayed)})
}
