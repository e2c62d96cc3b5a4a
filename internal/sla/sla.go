// Package sla decides whether a ticket has breached the resolution time
// bound to its priority.
package sla

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

var durations = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityHigh:   time.Hour,
	domain.TicketPriorityMedium: 4 * time.Hour,
	domain.TicketPriorityLow:    24 * time.Hour,
}

// Duration returns the SLA for priority. Unknown or empty priorities get MEDIUM.
func Duration(priority domain.TicketPriority) time.Duration {
	if d, ok := durations[priority]; ok {
		return d
	}
	return durations[domain.TicketPriorityMedium]
}

// IsDelayed reports whether ticket is past its SLA at now. Completed tickets
// are never delayed.
func IsDelayed(ticket *domain.Ticket, now time.Time) bool {
	if ticket == nil || ticket.Status == domain.TicketStatusCompleted {
		return false
	}
	return now.Sub(ticket.CreatedAt) > Duration(ticket.Priority)
}

// Deadline returns the instant after which ticket counts as delayed.
func Deadline(ticket *domain.Ticket) time.Time {
	return ticket.CreatedAt.Add(Duration(ticket.Priority))
}

// DelayedSet filters tickets down to the delayed ones, keeping order.
func DelayedSet(tickets []domain.Ticket, now time.Time) []domain.Ticket {
	result := make([]domain.Ticket, 0)
	for i := range tickets {
		if IsDelayed(&tickets[i], now) {
			result = append(result, tickets[i])
		}
	}
	return result
}
