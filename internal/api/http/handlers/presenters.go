package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/sla"
)

// delayedFunc evaluates the SLA at the service clock.
type delayedFunc func(*domain.Ticket) bool

func ticketResponse(ticket *domain.Ticket, delayed delayedFunc) dto.TicketResponse {
	history := make([]dto.HistoryEntryResponse, 0, len(ticket.History))
	for _, entry := range ticket.History {
		history = append(history, dto.HistoryEntryResponse{
			Status:      entry.Status,
			StatusLabel: dto.StatusLabel(entry.Status),
			Timestamp:   entry.Timestamp,
			Note:        entry.Note,
			UpdaterName: entry.UpdaterName,
		})
	}
	return dto.TicketResponse{
		ID:               ticket.ID,
		Line:             ticket.Line,
		Machine:          ticket.Machine,
		Symptom:          ticket.Symptom,
		SymptomCategory:  ticket.SymptomCategory,
		Description:      ticket.Description,
		Applicant:        ticket.Applicant,
		Status:           ticket.Status,
		StatusLabel:      dto.StatusLabel(ticket.Status),
		Priority:         ticket.Priority,
		PriorityLabel:    dto.PriorityLabel(ticket.Priority),
		Delayed:          delayed(ticket),
		SLADeadline:      sla.Deadline(ticket),
		History:          history,
		BeforePhotos:     nonNilStrings(ticket.BeforePhotos),
		AfterPhotos:      nonNilStrings(ticket.AfterPhotos),
		CompletionReport: ticket.CompletionReport,
		AdditionalInfo:   ticket.AdditionalInfo,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket, delayed delayedFunc) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketResponse(&tickets[i], delayed))
	}
	return out
}

func staffResponse(staff *domain.StaffMember) dto.StaffResponse {
	schedule := make(map[string]domain.ShiftLabel, len(staff.MonthlySchedule))
	for k, v := range staff.MonthlySchedule {
		schedule[k] = v
	}
	return dto.StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Role:      staff.Role,
		Position:  staff.Position,
		Schedule:  schedule,
		CreatedAt: staff.CreatedAt,
		UpdatedAt: staff.UpdatedAt,
	}
}

func staffResponses(staff []domain.StaffMember) []dto.StaffResponse {
	out := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, staffResponse(&staff[i]))
	}
	return out
}

func notificationResponse(record *domain.NotificationRecord) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:           record.ID,
		TargetRole:   record.TargetRole,
		Message:      record.Message,
		TicketID:     record.TicketID,
		DeepLink:     record.DeepLink,
		Recipients:   nonNilStrings(record.Recipients),
		Suppressed:   record.Suppressed,
		DispatchedAt: record.DispatchedAt,
	}
}

func shiftWindowResponses(windows domain.ShiftWindows) []dto.ShiftWindowResponse {
	out := make([]dto.ShiftWindowResponse, 0, len(domain.WorkingShifts))
	for _, label := range domain.WorkingShifts {
		w, ok := windows[label]
		if !ok {
			continue
		}
		out = append(out, dto.ShiftWindowResponse{
			Shift:      label,
			ShiftLabel: dto.ShiftLabelText(label),
			StartHour:  w.StartHour,
			EndHour:    w.EndHour,
		})
	}
	return out
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return defaultVal
	}
	return parsed
}
