package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// StaffHandler administers the roster and shift calendar.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// ListStaff GET /staff?role=.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	var role *domain.StaffRole
	if raw := c.Query("role"); raw != "" {
		r := domain.StaffRole(strings.ToUpper(raw))
		role = &r
	}
	staff, err := h.staff.ListStaff(c.UserContext(), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponses(staff)})
}

// CreateStaff POST /staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.CreateStaff(c.UserContext(), service.StaffInput{
		Name:     req.Name,
		Role:     req.Role,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(member)})
}

// UpdateStaff PUT /staff/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.UpdateStaff(c.UserContext(), c.Params("id"), service.StaffUpdate{
		Name:     req.Name,
		Role:     req.Role,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// PaintSchedule PUT /staff/:id/schedule.
func (h *StaffHandler) PaintSchedule(c *fiber.Ctx) error {
	var req dto.PaintScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.PaintSchedule(c.UserContext(), service.PaintInput{
		StaffID: c.Params("id"),
		From:    req.From,
		To:      req.To,
		Shift:   domain.ShiftLabel(strings.ToUpper(string(req.Shift))),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// OnDuty GET /staff/on-duty?role=&at=.
func (h *StaffHandler) OnDuty(c *fiber.Ctx) error {
	role := domain.StaffRole(strings.ToUpper(c.Query("role", string(domain.StaffRoleMaintenance))))
	var at time.Time
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.NewValidationError("at must be RFC3339", map[string]any{"at": raw})
		}
		at = parsed
	}
	duty, err := h.staff.OnDuty(c.UserContext(), role, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OnDutyResponse{
		Role:       duty.Role,
		Shift:      duty.Shift,
		ShiftLabel: dto.ShiftLabelText(duty.Shift),
		DateKey:    duty.DateKey,
		At:         duty.At,
		Staff:      staffResponses(duty.Staff),
	}})
}
