package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

func TestDispatchDeliversToOnDutyRole(t *testing.T) {
	h := newHarness(t, morning,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftMorning),
		staffOn("p1", "Park", domain.StaffRoleProduction, "2025-01-15", domain.ShiftMorning),
	)
	var maintenance []events.LiveEvent
	h.hub.Subscribe(domain.StaffRoleMaintenance, func(_ context.Context, e events.LiveEvent) error {
		maintenance = append(maintenance, e)
		return nil
	})

	record, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    "Press 3 is down",
		TicketID:   "REQ-20250115-001",
		DeepLink:   "/maintenance/request/REQ-20250115-001",
	})
	require.NoError(t, err)
	assert.False(t, record.Suppressed)
	assert.Equal(t, []string{"Lee"}, record.Recipients)
	assert.Equal(t, "Press 3 is down", record.Message)
	assert.Equal(t, morning, record.DispatchedAt)

	require.Len(t, maintenance, 1)
	assert.Equal(t, "Press 3 is down (sent to: Lee)", maintenance[0].Message)
	assert.Equal(t, "/maintenance/request/REQ-20250115-001", maintenance[0].DeepLink)
	assert.Equal(t, []string{"Lee"}, maintenance[0].Recipients)
}

func TestDispatchSuppressedWhenNobodyOnShift(t *testing.T) {
	// 10:00 is MORNING but the only technician works nights.
	h := newHarness(t, morning,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftNight),
	)

	record, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    "Press 3 is down",
	})
	require.NoError(t, err)
	assert.True(t, record.Suppressed)
	assert.Empty(t, record.Recipients)
	assert.Empty(t, h.live.all())

	logged, err := h.router.List(context.Background(), NotificationListFilter{})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.True(t, logged[0].Suppressed)
}

func TestDispatchSuppressedOutsideEveryWindow(t *testing.T) {
	h := newHarness(t, morning,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftMorning),
	)
	require.NoError(t, h.settings.SaveShiftWindows(context.Background(), domain.ShiftWindows{
		domain.ShiftMorning:   {StartHour: 6, EndHour: 9},
		domain.ShiftAfternoon: {StartHour: 12, EndHour: 18},
		domain.ShiftNight:     {StartHour: 22, EndHour: 2},
	}))

	record, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    "gap hour",
	})
	require.NoError(t, err)
	assert.True(t, record.Suppressed)
}

func TestDispatchNightShiftUsesPreviousDateAfterMidnight(t *testing.T) {
	at := time.Date(2025, 1, 16, 2, 0, 0, 0, time.UTC)
	h := newHarness(t, at,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftNight),
		staffOn("m2", "Kang", domain.StaffRoleMaintenance, "2025-01-16", domain.ShiftNight),
	)

	record, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    "overnight",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lee"}, record.Recipients)
}

func TestDispatchRejectsUnknownRole(t *testing.T) {
	h := newHarness(t, morning)
	_, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{TargetRole: "ADMIN"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

type failingStaffRepo struct {
	repository.StaffRepository
}

func (failingStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.StaffMember, error) {
	return nil, errors.New("roster unavailable")
}

func TestDispatchFailureDoesNotUndoTicket(t *testing.T) {
	h := newHarness(t, morning)
	h.router.staff = failingStaffRepo{}

	ticket, err := h.ticketSvc.Create(context.Background(), validDraft())
	require.NoError(t, err)

	stored, err := h.ticketSvc.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, stored.ID)

	logged, err := h.router.List(context.Background(), NotificationListFilter{})
	require.NoError(t, err)
	assert.Empty(t, logged)
}

func TestNotificationListFilters(t *testing.T) {
	h := newHarness(t, morning,
		staffOn("p1", "Park", domain.StaffRoleProduction, "2025-01-15", domain.ShiftMorning),
	)
	ctx := context.Background()
	_, err := h.router.Dispatch(ctx, domain.NotificationEvent{TargetRole: domain.StaffRoleMaintenance, Message: "a", TicketID: "T1"})
	require.NoError(t, err)
	_, err = h.router.Dispatch(ctx, domain.NotificationEvent{TargetRole: domain.StaffRoleProduction, Message: "b", TicketID: "T2"})
	require.NoError(t, err)

	role := domain.StaffRoleProduction
	byRole, err := h.router.List(ctx, NotificationListFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, "b", byRole[0].Message)

	suppressed := true
	dnd, err := h.router.List(ctx, NotificationListFilter{Suppressed: &suppressed})
	require.NoError(t, err)
	require.Len(t, dnd, 1)
	assert.Equal(t, "T1", dnd[0].TicketID)
}

type failingNotificationRepo struct {
	repository.NotificationRepository
}

func (failingNotificationRepo) Append(context.Context, *domain.NotificationRecord) error {
	return errors.New("log unavailable")
}

func TestDispatchDoesNotPublishWhenLogAppendFails(t *testing.T) {
	h := newHarness(t, morning,
		staffOn("m1", "Lee", domain.StaffRoleMaintenance, "2025-01-15", domain.ShiftMorning),
	)
	h.router.log = failingNotificationRepo{}

	record, err := h.router.Dispatch(context.Background(), domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    "pump down",
	})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Empty(t, h.live.all())
}
