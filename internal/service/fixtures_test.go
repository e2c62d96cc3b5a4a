package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/ticketid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type liveRecorder struct {
	mu     sync.Mutex
	events []events.LiveEvent
}

func (r *liveRecorder) handle(_ context.Context, e events.LiveEvent) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *liveRecorder) all() []events.LiveEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.LiveEvent(nil), r.events...)
}

type harness struct {
	clock         *fakeClock
	tickets       repository.TicketRepository
	staff         repository.StaffRepository
	settings      repository.SettingsRepository
	notifications repository.NotificationRepository
	hub           *events.MemoryHub
	live          *liveRecorder
	router        *NotificationService
	ticketSvc     *TicketService
	reports       *ReportService
	staffSvc      *StaffService
}

// 2025-01-15 10:00 UTC falls in the default MORNING window.
var morning = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, now time.Time, roster ...domain.StaffMember) *harness {
	t.Helper()
	h := &harness{
		clock:         newFakeClock(now),
		tickets:       repository.NewMemoryTicketRepository(),
		staff:         repository.NewMemoryStaffRepository(roster...),
		settings:      repository.NewMemorySettingsRepository(nil),
		notifications: repository.NewMemoryNotificationRepository(),
		hub:           events.NewMemoryHub(nil),
		live:          &liveRecorder{},
	}
	h.hub.Subscribe("", h.live.handle)

	h.router = NewNotificationService(NotificationDependencies{
		StaffRepo:        h.staff,
		SettingsRepo:     h.settings,
		NotificationRepo: h.notifications,
		Hub:              h.hub,
		Clock:            h.clock.Now,
		Location:         time.UTC,
	})
	h.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo:  h.tickets,
		IDGenerator: ticketid.NewGenerator(ticketid.NewMemorySequencer(), h.tickets),
		Dispatcher:  h.router,
		Clock:       h.clock.Now,
		Location:    time.UTC,
	})
	h.reports = NewReportService(ReportDependencies{
		TicketRepo: h.tickets,
		Clock:      h.clock.Now,
		Location:   time.UTC,
	})
	h.staffSvc = NewStaffService(StaffDependencies{
		StaffRepo:    h.staff,
		SettingsRepo: h.settings,
		MasterData:   domain.MasterData{Lines: []string{"Line A"}},
		Clock:        h.clock.Now,
		Location:     time.UTC,
	})
	return h
}

func staffOn(id, name string, role domain.StaffRole, dateKey string, shift domain.ShiftLabel) domain.StaffMember {
	return domain.StaffMember{
		ID:              id,
		Name:            name,
		Role:            role,
		MonthlySchedule: map[string]domain.ShiftLabel{dateKey: shift},
	}
}

func validDraft() TicketDraft {
	return TicketDraft{
		Line:         "Line A",
		Machine:      "Press 3",
		Symptom:      "Abnormal noise",
		Applicant:    "Choi",
		Priority:     domain.TicketPriorityHigh,
		BeforePhotos: []string{"blob://before-1"},
	}
}

func completion() *CompletionInput {
	return &CompletionInput{ActionDetails: "Replaced bearing", Parts: []string{"Bearing 6204"}, WorkDuration: "1h"}
}
