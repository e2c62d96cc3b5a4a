package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// SettingsHandler serves shift windows and the master catalog.
type SettingsHandler struct {
	staff *service.StaffService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(staff *service.StaffService) *SettingsHandler {
	return &SettingsHandler{staff: staff}
}

// GetShifts GET /settings/shifts.
func (h *SettingsHandler) GetShifts(c *fiber.Ctx) error {
	windows, err := h.staff.ShiftWindows(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shiftWindowResponses(windows)})
}

// UpdateShifts PUT /settings/shifts with {"MORNING":{"start":6,"end":14},...}.
func (h *SettingsHandler) UpdateShifts(c *fiber.Ctx) error {
	var req domain.ShiftWindows
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	windows, err := h.staff.UpdateShiftWindows(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shiftWindowResponses(windows)})
}

// MasterData GET /master-data.
func (h *SettingsHandler) MasterData(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.staff.MasterData()})
}
