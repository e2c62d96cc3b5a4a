package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window ShiftWindow
		hour   int
		want   bool
	}{
		{"same day start", ShiftWindow{6, 14}, 6, true},
		{"same day end exclusive", ShiftWindow{6, 14}, 14, false},
		{"same day before", ShiftWindow{6, 14}, 5, false},
		{"overnight late", ShiftWindow{22, 6}, 23, true},
		{"overnight early", ShiftWindow{22, 6}, 2, true},
		{"overnight end exclusive", ShiftWindow{22, 6}, 6, false},
		{"overnight gap", ShiftWindow{22, 6}, 12, false},
		{"equal bounds cover the day", ShiftWindow{8, 8}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.hour))
		})
	}
}

func TestShiftWindowsValidate(t *testing.T) {
	assert.NoError(t, DefaultShiftWindows().Validate())

	missing := DefaultShiftWindows()
	delete(missing, ShiftNight)
	assert.Error(t, missing.Validate())

	outOfRange := DefaultShiftWindows()
	outOfRange[ShiftMorning] = ShiftWindow{StartHour: 6, EndHour: 24}
	assert.Error(t, outOfRange.Validate())

	withOff := DefaultShiftWindows()
	withOff[ShiftOff] = ShiftWindow{}
	assert.Error(t, withOff.Validate())
}

func TestStaffMemberShiftOn(t *testing.T) {
	staff := StaffMember{MonthlySchedule: map[string]ShiftLabel{"2025-01-01": ShiftNight}}
	assert.Equal(t, ShiftNight, staff.ShiftOn("2025-01-01"))
	assert.Equal(t, ShiftOff, staff.ShiftOn("2025-01-02"))
}

func TestTicketCloneIsDeep(t *testing.T) {
	original := &Ticket{
		ID:               "REQ-20250101-001",
		History:          []HistoryEntry{{Status: TicketStatusOpen}},
		BeforePhotos:     []string{"a"},
		CompletionReport: &CompletionReport{Parts: []string{"PT-001"}},
	}
	clone := original.Clone()
	clone.History[0].Status = TicketStatusCompleted
	clone.BeforePhotos[0] = "b"
	clone.CompletionReport.Parts[0] = "PT-002"

	assert.Equal(t, TicketStatusOpen, original.History[0].Status)
	assert.Equal(t, "a", original.BeforePhotos[0])
	assert.Equal(t, "PT-001", original.CompletionReport.Parts[0])
}
