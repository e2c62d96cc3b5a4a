package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

func seedReportTickets(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()
	drafts := []TicketDraft{
		{Line: "Line A", Machine: "Press 1", Symptom: "Noise", Priority: domain.TicketPriorityHigh},
		{Line: "Line A", Machine: "Press 2", Symptom: "Noise", Priority: domain.TicketPriorityLow},
		{Line: "Line B", Machine: "Lathe", Symptom: "Leak", Priority: domain.TicketPriorityMedium},
	}
	for _, d := range drafts {
		d.BeforePhotos = []string{"p"}
		_, err := h.ticketSvc.Create(ctx, d)
		require.NoError(t, err)
		h.clock.Advance(time.Minute)
	}
}

func TestDashboard(t *testing.T) {
	h := newHarness(t, morning)
	seedReportTickets(t, h)
	ctx := context.Background()

	_, err := h.ticketSvc.Transition(ctx, TransitionInput{
		TicketID: "REQ-20250115-003", NextStatus: domain.TicketStatusCompleted,
		AfterPhotos: []string{"a"}, Completion: completion(),
	})
	require.NoError(t, err)

	h.clock.Advance(2 * time.Hour)
	dash, err := h.reports.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.Total)
	assert.Equal(t, 2, dash.Pending)
	assert.Equal(t, 1, dash.CompletedToday)
	assert.Equal(t, 1, dash.DelayedCount)
	require.Len(t, dash.Delayed, 1)
	assert.Equal(t, "REQ-20250115-001", dash.Delayed[0].ID)
	assert.Equal(t, []NamedCount{{Name: "Line A", Count: 2}, {Name: "Line B", Count: 1}}, dash.ByLine)
	assert.Equal(t, "Noise", dash.TopSymptoms[0].Name)
}

func TestDashboardTopSymptomsCapped(t *testing.T) {
	h := newHarness(t, morning)
	for i := 0; i < 7; i++ {
		_, err := h.ticketSvc.Create(context.Background(), TicketDraft{
			Symptom: fmt.Sprintf("S%d", i), Priority: domain.TicketPriorityLow, BeforePhotos: []string{"p"},
		})
		require.NoError(t, err)
	}
	dash, err := h.reports.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, dash.TopSymptoms, topSymptoms)
}

func TestListTicketsTabsAndPaging(t *testing.T) {
	h := newHarness(t, morning)
	seedReportTickets(t, h)
	ctx := context.Background()
	h.clock.Advance(2 * time.Hour)

	t.Run("delayed tab", func(t *testing.T) {
		page, err := h.reports.ListTickets(ctx, TicketQuery{Tab: TabDelayed})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "REQ-20250115-001", page.Items[0].ID)
	})

	t.Run("open tab sorted by id ascending", func(t *testing.T) {
		page, err := h.reports.ListTickets(ctx, TicketQuery{Tab: TabOpen, SortBy: repository.SortByID, Ascending: true})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "REQ-20250115-001", page.Items[0].ID)
	})

	t.Run("search", func(t *testing.T) {
		page, err := h.reports.ListTickets(ctx, TicketQuery{Search: "lathe"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Lathe", page.Items[0].Machine)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := h.reports.ListTickets(ctx, TicketQuery{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "REQ-20250115-001", page.Items[0].ID)
	})

	t.Run("page past end is empty", func(t *testing.T) {
		page, err := h.reports.ListTickets(ctx, TicketQuery{Page: 9})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("bad tab", func(t *testing.T) {
		_, err := h.reports.ListTickets(ctx, TicketQuery{Tab: "ARCHIVED"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	})

	t.Run("bad sort", func(t *testing.T) {
		_, err := h.reports.ListTickets(ctx, TicketQuery{SortBy: "machine"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	})
}

func TestDelayedReport(t *testing.T) {
	h := newHarness(t, morning)
	seedReportTickets(t, h)
	h.clock.Advance(5 * time.Hour)

	delayed, err := h.reports.Delayed(context.Background())
	require.NoError(t, err)
	ids := []string{}
	for _, d := range delayed {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"REQ-20250115-001", "REQ-20250115-003"}, ids)
}
