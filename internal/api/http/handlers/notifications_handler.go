package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// NotificationsHandler exposes the notification log.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications?role=&ticket_id=&suppressed=&limit=&offset=.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	filter := service.NotificationListFilter{
		TicketID: strings.TrimSpace(c.Query("ticket_id")),
		Limit:    parseIntQuery(c, "limit", 50),
		Offset:   parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		role := domain.StaffRole(strings.ToUpper(raw))
		if !role.Valid() {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": raw})
		}
		filter.Role = &role
	}
	if raw := c.Query("suppressed"); raw != "" {
		suppressed, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("suppressed must be a boolean", nil)
		}
		filter.Suppressed = &suppressed
	}

	records, err := h.notifications.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(records))
	for i := range records {
		items = append(items, notificationResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
