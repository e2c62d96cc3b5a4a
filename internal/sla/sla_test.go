package sla_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/sla"
)

var created = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func ticket(priority domain.TicketPriority, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{Priority: priority, Status: status, CreatedAt: created}
}

func TestIsDelayedHighPriorityBoundary(t *testing.T) {
	tk := ticket(domain.TicketPriorityHigh, domain.TicketStatusOpen)
	assert.False(t, sla.IsDelayed(tk, created.Add(59*time.Minute)))
	assert.False(t, sla.IsDelayed(tk, created.Add(time.Hour)))
	assert.True(t, sla.IsDelayed(tk, created.Add(61*time.Minute)))
}

func TestIsDelayedByPriority(t *testing.T) {
	tests := []struct {
		priority domain.TicketPriority
		sla      time.Duration
	}{
		{domain.TicketPriorityHigh, time.Hour},
		{domain.TicketPriorityMedium, 4 * time.Hour},
		{domain.TicketPriorityLow, 24 * time.Hour},
		{"", 4 * time.Hour},
		{"URGENT", 4 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			assert.Equal(t, tt.sla, sla.Duration(tt.priority))
			tk := ticket(tt.priority, domain.TicketStatusInProgress)
			assert.False(t, sla.IsDelayed(tk, created.Add(tt.sla)))
			assert.True(t, sla.IsDelayed(tk, created.Add(tt.sla+time.Second)))
		})
	}
}

func TestCompletedTicketsAreNeverDelayed(t *testing.T) {
	tk := ticket(domain.TicketPriorityHigh, domain.TicketStatusCompleted)
	assert.False(t, sla.IsDelayed(tk, created.Add(365*24*time.Hour)))
	assert.False(t, sla.IsDelayed(nil, created))
}

func TestDelayedSet(t *testing.T) {
	now := created.Add(2 * time.Hour)
	tickets := []domain.Ticket{
		{ID: "a", Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusOpen, CreatedAt: created},
		{ID: "b", Priority: domain.TicketPriorityLow, Status: domain.TicketStatusOpen, CreatedAt: created},
		{ID: "c", Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusCompleted, CreatedAt: created},
		{ID: "d", Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusInProgress, CreatedAt: created},
	}
	delayed := sla.DelayedSet(tickets, now)
	ids := make([]string, 0, len(delayed))
	for _, tk := range delayed {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"a", "d"}, ids)
	assert.Equal(t, created.Add(time.Hour), sla.Deadline(&tickets[0]))
}
