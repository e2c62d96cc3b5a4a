package domain

import "time"

// NotificationEvent is what a lifecycle mutation asks the router to deliver.
type NotificationEvent struct {
	TargetRole StaffRole
	Message    string
	TicketID   string
	DeepLink   string
}

// NotificationRecord is the immutable log entry written for every dispatch.
type NotificationRecord struct {
	ID           string
	TargetRole   StaffRole
	Message      string
	TicketID     string
	DeepLink     string
	Recipients   []string
	Suppressed   bool
	DispatchedAt time.Time
}
