package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// NotificationResponse is one notification log entry.
type NotificationResponse struct {
	ID           string           `json:"id"`
	TargetRole   domain.StaffRole `json:"target_role"`
	Message      string           `json:"message"`
	TicketID     string           `json:"ticket_id,omitempty"`
	DeepLink     string           `json:"deep_link,omitempty"`
	Recipients   []string         `json:"recipients"`
	Suppressed   bool             `json:"suppressed"`
	DispatchedAt time.Time        `json:"dispatched_at"`
}
