package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/sla"
)

// DelayedSource lists open tickets that are past their SLA.
type DelayedSource interface {
	Delayed(ctx context.Context) ([]domain.Ticket, error)
}

type options struct {
	Cron     *cron.Cron
	Location *time.Location
	Hub      events.Hub
	Metrics  *observability.Metrics
	Clock    func() time.Time
}

// Option configures the SLA monitor.
type Option func(*options)

// WithCron supplies a preconfigured cron scheduler instance.
func WithCron(c *cron.Cron) Option {
	return func(o *options) { o.Cron = c }
}

// WithLocation sets the timezone cron specs are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.Location = loc }
}

// WithHub pushes newly breached tickets to live maintenance consoles.
func WithHub(h events.Hub) Option {
	return func(o *options) { o.Hub = h }
}

// WithMetrics updates the delayed gauge on every sweep.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.Metrics = m }
}

// WithClock overrides time.Now for alert timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.Clock = clock }
}

// SLAMonitor periodically recomputes the delayed set.
type SLAMonitor struct {
	source  DelayedSource
	logger  *zap.Logger
	cron    *cron.Cron
	hub     events.Hub
	metrics *observability.Metrics
	clock   func() time.Time

	mu      sync.Mutex
	alerted map[string]struct{}
}

// NewSLAMonitor builds a monitor; call Start to schedule it.
func NewSLAMonitor(source DelayedSource, logger *zap.Logger, opts ...Option) *SLAMonitor {
	o := options{Location: time.UTC, Clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Cron == nil {
		o.Cron = cron.New(cron.WithLocation(o.Location))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAMonitor{
		source:  source,
		logger:  logger,
		cron:    o.Cron,
		hub:     o.Hub,
		metrics: o.Metrics,
		clock:   o.Clock,
		alerted: make(map[string]struct{}),
	}
}

// Start registers the sweep under schedule and starts the scheduler.
func (m *SLAMonitor) Start(ctx context.Context, schedule string) error {
	_, err := m.cron.AddFunc(schedule, func() {
		if _, err := m.Sweep(ctx); err != nil {
			m.logger.Error("sla sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sla sweep %q: %w", schedule, err)
	}
	m.cron.Start()
	m.logger.Info("sla monitor started", zap.String("schedule", schedule))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (m *SLAMonitor) Stop() {
	<-m.cron.Stop().Done()
}

// Sweep recomputes the delayed set and returns tickets that breached since
// the previous sweep.
func (m *SLAMonitor) Sweep(ctx context.Context) ([]domain.Ticket, error) {
	delayed, err := m.source.Delayed(ctx)
	if err != nil {
		return nil, err
	}
	m.metrics.SetDelayed(len(delayed))

	m.mu.Lock()
	current := make(map[string]struct{}, len(delayed))
	fresh := make([]domain.Ticket, 0)
	for _, t := range delayed {
		current[t.ID] = struct{}{}
		if _, seen := m.alerted[t.ID]; !seen {
			fresh = append(fresh, t)
		}
	}
	m.alerted = current
	m.mu.Unlock()

	for i := range fresh {
		t := &fresh[i]
		m.logger.Warn("ticket breached sla",
			zap.String("ticket_id", t.ID),
			zap.String("priority", string(t.Priority)),
			zap.Time("deadline", sla.Deadline(t)),
		)
		if m.hub == nil {
			continue
		}
		err := m.hub.Publish(ctx, events.LiveEvent{
			Type:       events.EventSLADelayed,
			TargetRole: domain.StaffRoleMaintenance,
			Message:    fmt.Sprintf("[SLA breached] %s - %s", t.ID, t.Machine),
			TicketID:   t.ID,
			DeepLink:   "/maintenance/request/" + t.ID,
			Timestamp:  m.clock(),
		})
		if err != nil {
			m.logger.Warn("sla alert publish failed", zap.String("ticket_id", t.ID), zap.Error(err))
		}
	}
	return fresh, nil
}
