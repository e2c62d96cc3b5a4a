package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
)

type stubDelayedSource struct {
	tickets []domain.Ticket
	err     error
}

func (s *stubDelayedSource) Delayed(context.Context) ([]domain.Ticket, error) {
	return s.tickets, s.err
}

func TestSweepAlertsOncePerBreach(t *testing.T) {
	source := &stubDelayedSource{tickets: []domain.Ticket{
		{ID: "REQ-20250115-001", Priority: domain.TicketPriorityHigh, Machine: "Press 1"},
	}}
	hub := events.NewMemoryHub(nil)
	var pushed []events.LiveEvent
	hub.Subscribe(domain.StaffRoleMaintenance, func(_ context.Context, e events.LiveEvent) error {
		pushed = append(pushed, e)
		return nil
	})

	monitor := NewSLAMonitor(source, nil, WithHub(hub))
	ctx := context.Background()

	fresh, err := monitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)

	fresh, err = monitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	source.tickets = append(source.tickets, domain.Ticket{ID: "REQ-20250115-002"})
	fresh, err = monitor.Sweep(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "REQ-20250115-002", fresh[0].ID)

	require.Len(t, pushed, 2)
	assert.Equal(t, events.EventSLADelayed, pushed[0].Type)
	assert.Equal(t, "/maintenance/request/REQ-20250115-001", pushed[0].DeepLink)
}

func TestSweepRealertsAfterRecovery(t *testing.T) {
	source := &stubDelayedSource{tickets: []domain.Ticket{{ID: "A"}}}
	monitor := NewSLAMonitor(source, nil)
	ctx := context.Background()

	_, err := monitor.Sweep(ctx)
	require.NoError(t, err)
	source.tickets = nil
	_, err = monitor.Sweep(ctx)
	require.NoError(t, err)
	source.tickets = []domain.Ticket{{ID: "A"}}
	fresh, err := monitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestSweepPropagatesSourceError(t *testing.T) {
	monitor := NewSLAMonitor(&stubDelayedSource{err: errors.New("db down")}, nil)
	_, err := monitor.Sweep(context.Background())
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cronEngine := cron.New(cron.WithLocation(time.UTC))
	t.Cleanup(func() { cronEngine.Stop() })

	monitor := NewSLAMonitor(&stubDelayedSource{}, nil, WithCron(cronEngine))
	assert.Error(t, monitor.Start(context.Background(), "not a schedule"))
	require.NoError(t, monitor.Start(context.Background(), "@every 1h"))
	assert.Len(t, cronEngine.Entries(), 1)
	monitor.Stop()
}
