package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

func TestCreateAndUpdateStaff(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	_, err := h.staffSvc.CreateStaff(ctx, StaffInput{Name: " ", Role: domain.StaffRoleMaintenance})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = h.staffSvc.CreateStaff(ctx, StaffInput{Name: "Lee", Role: "ADMIN"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	member, err := h.staffSvc.CreateStaff(ctx, StaffInput{Name: "Lee", Role: domain.StaffRoleMaintenance, Position: "Technician"})
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)
	assert.Empty(t, member.MonthlySchedule)

	position := "Lead"
	role := domain.StaffRoleProduction
	updated, err := h.staffSvc.UpdateStaff(ctx, member.ID, StaffUpdate{Position: &position, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Lead", updated.Position)
	assert.Equal(t, domain.StaffRoleProduction, updated.Role)
	assert.Equal(t, "Lee", updated.Name)

	_, err = h.staffSvc.UpdateStaff(ctx, "missing", StaffUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	list, err := h.staffSvc.ListStaff(ctx, &role)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPaintSchedule(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()
	member, err := h.staffSvc.CreateStaff(ctx, StaffInput{Name: "Lee", Role: domain.StaffRoleMaintenance})
	require.NoError(t, err)

	painted, err := h.staffSvc.PaintSchedule(ctx, PaintInput{
		StaffID: member.ID, From: "2025-01-31", To: "2025-01-29", Shift: domain.ShiftNight,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftNight, painted.ShiftOn("2025-01-29"))
	assert.Equal(t, domain.ShiftNight, painted.ShiftOn("2025-01-31"))
	assert.Len(t, painted.MonthlySchedule, 3)

	cleared, err := h.staffSvc.PaintSchedule(ctx, PaintInput{
		StaffID: member.ID, From: "2025-01-30", To: "2025-01-30", Shift: domain.ShiftOff,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftOff, cleared.ShiftOn("2025-01-30"))
	assert.Len(t, cleared.MonthlySchedule, 2)

	_, err = h.staffSvc.PaintSchedule(ctx, PaintInput{StaffID: member.ID, From: "2025-01-01", To: "2025-03-15", Shift: domain.ShiftMorning})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = h.staffSvc.PaintSchedule(ctx, PaintInput{StaffID: member.ID, From: "01/01/2025", To: "2025-01-02", Shift: domain.ShiftMorning})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = h.staffSvc.PaintSchedule(ctx, PaintInput{StaffID: member.ID, From: "2025-01-01", To: "2025-01-02", Shift: "EVENING"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = h.staffSvc.PaintSchedule(ctx, PaintInput{StaffID: "missing", From: "2025-01-01", To: "2025-01-02", Shift: domain.ShiftMorning})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestShiftWindowsAdmin(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	_, err := h.staffSvc.UpdateShiftWindows(ctx, domain.ShiftWindows{
		domain.ShiftMorning: {StartHour: 7, EndHour: 15},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	windows := domain.ShiftWindows{
		domain.ShiftMorning:   {StartHour: 7, EndHour: 15},
		domain.ShiftAfternoon: {StartHour: 15, EndHour: 23},
		domain.ShiftNight:     {StartHour: 23, EndHour: 7},
	}
	_, err = h.staffSvc.UpdateShiftWindows(ctx, windows)
	require.NoError(t, err)

	got, err := h.staffSvc.ShiftWindows(ctx)
	require.NoError(t, err)
	assert.Equal(t, windows, got)
}

func TestOnDuty(t *testing.T) {
	h := newHarness(t, morning,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftMorning),
		staffOn("m2", "Kang", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftNight),
	)
	ctx := context.Background()

	now, err := h.staffSvc.OnDuty(ctx, domain.StaffRoleMaintenance, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftMorning, now.Shift)
	assert.Equal(t, "2025-01-15", now.DateKey)
	require.Len(t, now.Staff, 1)
	assert.Equal(t, "Lee", now.Staff[0].Name)

	night, err := h.staffSvc.OnDuty(ctx, domain.StaffRoleMaintenance, time.Date(2025, 1, 16, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftNight, night.Shift)
	assert.Equal(t, "2025-01-15", night.DateKey)
	require.Len(t, night.Staff, 1)
	assert.Equal(t, "Kang", night.Staff[0].Name)

	_, err = h.staffSvc.OnDuty(ctx, "ADMIN", time.Time{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	assert.Equal(t, []string{"Line A"}, h.staffSvc.MasterData().Lines)
}
