package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/schedule"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// Dispatcher routes lifecycle events to on-duty staff.
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) (*domain.NotificationRecord, error)
}

// NotificationService routes events to the on-duty audience and keeps the log.
type NotificationService struct {
	staff    repository.StaffRepository
	settings repository.SettingsRepository
	log      repository.NotificationRepository
	hub      events.Hub
	logger   *zap.Logger
	metrics  *observability.Metrics
	clock    Clock
	location *time.Location
}

// NotificationDependencies bundles collaborators for the router.
type NotificationDependencies struct {
	StaffRepo        repository.StaffRepository
	SettingsRepo     repository.SettingsRepository
	NotificationRepo repository.NotificationRepository
	Hub              events.Hub
	Logger           *zap.Logger
	Metrics          *observability.Metrics
	Clock            Clock
	Location         *time.Location
}

// NotificationListFilter narrows the log listing.
type NotificationListFilter struct {
	Role       *domain.StaffRole
	TicketID   string
	Suppressed *bool
	Limit      int
	Offset     int
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		staff:    deps.StaffRepo,
		settings: deps.SettingsRepo,
		log:      deps.NotificationRepo,
		hub:      deps.Hub,
		logger:   logger,
		metrics:  deps.Metrics,
		clock:    deps.Clock,
		location: deps.Location,
	}
}

// Dispatch resolves recipients for the event's role, appends the outcome to
// the log, then publishes to the recipients when anyone is on duty.
func (n *NotificationService) Dispatch(ctx context.Context, event domain.NotificationEvent) (*domain.NotificationRecord, error) {
	if !event.TargetRole.Valid() {
		return nil, apperrors.NewValidationError("unknown notification target role", map[string]any{"target_role": event.TargetRole})
	}

	now := n.clock.now(n.location)
	recipients, err := n.recipients(ctx, event.TargetRole, now)
	if err != nil {
		return nil, err
	}

	record := &domain.NotificationRecord{
		ID:           uuid.NewString(),
		TargetRole:   event.TargetRole,
		Message:      event.Message,
		TicketID:     event.TicketID,
		DeepLink:     event.DeepLink,
		Recipients:   recipients,
		Suppressed:   len(recipients) == 0,
		DispatchedAt: now,
	}

	if err := n.log.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append notification: %w", err)
	}

	if record.Suppressed {
		n.logger.Info("no staff on duty; notification suppressed",
			zap.String("role", string(event.TargetRole)),
			zap.String("ticket_id", event.TicketID),
		)
	} else if n.hub != nil {
		live := events.FromRecord(record)
		live.Message = fmt.Sprintf("%s (sent to: %s)", record.Message, strings.Join(recipients, ", "))
		if err := n.hub.Publish(ctx, live); err != nil {
			n.logger.Warn("live publish failed",
				zap.String("role", string(event.TargetRole)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err),
			)
		}
	}

	n.metrics.NotificationDispatched(string(record.TargetRole), record.Suppressed)
	return record, nil
}

// List returns logged notifications, newest first.
func (n *NotificationService) List(ctx context.Context, filter NotificationListFilter) ([]domain.NotificationRecord, error) {
	return n.log.List(ctx, repository.NotificationFilter{
		Role:       filter.Role,
		TicketID:   filter.TicketID,
		Suppressed: filter.Suppressed,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

func (n *NotificationService) recipients(ctx context.Context, role domain.StaffRole, now time.Time) ([]string, error) {
	windows, err := n.settings.ShiftWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shift windows: %w", err)
	}
	roster, err := n.staff.List(ctx, repository.StaffFilter{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return schedule.Names(schedule.OnDutyStaff(role, now, roster, windows)), nil
}
