package dto

import "github.com/spec-kit/maintenance-service/internal/domain"

var statusLabels = map[domain.TicketStatus]string{
	domain.TicketStatusOpen:       "접수완료",
	domain.TicketStatusInProgress: "정비진행",
	domain.TicketStatusCompleted:  "정비완료",
}

var priorityLabels = map[domain.TicketPriority]string{
	domain.TicketPriorityHigh:   "높음",
	domain.TicketPriorityMedium: "보통",
	domain.TicketPriorityLow:    "낮음",
}

var shiftLabels = map[domain.ShiftLabel]string{
	domain.ShiftMorning:   "오전",
	domain.ShiftAfternoon: "오후",
	domain.ShiftNight:     "야간",
	domain.ShiftOff:       "휴무",
}

// StatusLabel is the console text for a status; unknown values pass through.
func StatusLabel(s domain.TicketStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PriorityLabel is the console text for a priority.
func PriorityLabel(p domain.TicketPriority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// ShiftLabelText is the calendar text for a shift.
func ShiftLabelText(l domain.ShiftLabel) string {
	if label, ok := shiftLabels[l]; ok {
		return label
	}
	return string(l)
}
