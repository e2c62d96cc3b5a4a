package events

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// EventType enumerates live push identifiers.
type EventType string

const (
	EventNotification EventType = "notification"
	EventSLADelayed   EventType = "sla_delayed"
)

// LiveEvent is what connected clients of a role receive.
type LiveEvent struct {
	Type       EventType        `json:"type"`
	TargetRole domain.StaffRole `json:"target_role"`
	Message    string           `json:"message"`
	TicketID   string           `json:"ticket_id,omitempty"`
	DeepLink   string           `json:"deep_link,omitempty"`
	Recipients []string         `json:"recipients,omitempty"`
	Timestamp  time.Time        `json:"dispatched_at"`
}

// FromRecord builds the push payload for a delivered notification.
func FromRecord(record *domain.NotificationRecord) LiveEvent {
	return LiveEvent{
		Type:       EventNotification,
		TargetRole: record.TargetRole,
		Message:    record.Message,
		TicketID:   record.TicketID,
		DeepLink:   record.DeepLink,
		Recipients: append([]string(nil), record.Recipients...),
		Timestamp:  record.DispatchedAt,
	}
}
