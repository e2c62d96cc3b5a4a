package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/schedule"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// MaxPaintDays bounds a single schedule paint.
const MaxPaintDays = 62

// StaffService administers the roster, shift windows and master catalog.
type StaffService struct {
	staff    repository.StaffRepository
	settings repository.SettingsRepository
	master   domain.MasterData
	logger   *zap.Logger
	clock    Clock
	location *time.Location
}

// StaffDependencies bundles collaborators for roster administration.
type StaffDependencies struct {
	StaffRepo    repository.StaffRepository
	SettingsRepo repository.SettingsRepository
	MasterData   domain.MasterData
	Logger       *zap.Logger
	Clock        Clock
	Location     *time.Location
}

// StaffInput creates a roster entry.
type StaffInput struct {
	Name     string
	Role     domain.StaffRole
	Position string
}

// StaffUpdate changes the non-nil fields of a roster entry.
type StaffUpdate struct {
	Name     *string
	Role     *domain.StaffRole
	Position *string
}

// PaintInput assigns one shift label to every date in [From, To].
type PaintInput struct {
	StaffID string
	From    string
	To      string
	Shift   domain.ShiftLabel
}

// OnDuty is the resolver output for one role at one instant.
type OnDuty struct {
	Role    domain.StaffRole
	Shift   domain.ShiftLabel
	DateKey string
	At      time.Time
	Staff   []domain.StaffMember
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:    deps.StaffRepo,
		settings: deps.SettingsRepo,
		master:   deps.MasterData,
		logger:   logger,
		clock:    deps.Clock,
		location: deps.Location,
	}
}

// ListStaff returns the roster, optionally narrowed to one role.
func (s *StaffService) ListStaff(ctx context.Context, role *domain.StaffRole) ([]domain.StaffMember, error) {
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": *role})
	}
	staff, err := s.staff.List(ctx, repository.StaffFilter{Role: role})
	return staff, apperrors.MapError(err)
}

// CreateStaff adds a roster entry with an empty schedule.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffInput) (*domain.StaffMember, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": input.Role})
	}
	now := s.clock.now(s.location)
	member := &domain.StaffMember{
		ID:              uuid.NewString(),
		Name:            name,
		Role:            input.Role,
		Position:        strings.TrimSpace(input.Position),
		MonthlySchedule: map[string]domain.ShiftLabel{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("staff created", zap.String("staff_id", member.ID), zap.String("role", string(member.Role)))
	return member, nil
}

// UpdateStaff applies the non-nil fields of update.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, update StaffUpdate) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member", id)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		member.Name = name
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": *update.Role})
		}
		member.Role = *update.Role
	}
	if update.Position != nil {
		member.Position = strings.TrimSpace(*update.Position)
	}
	member.UpdatedAt = s.clock.now(s.location)
	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// PaintSchedule sets every date between From and To (inclusive, either order)
// to Shift. OFF removes the dates, which reads back as OFF.
func (s *StaffService) PaintSchedule(ctx context.Context, input PaintInput) (*domain.StaffMember, error) {
	if !input.Shift.Valid() {
		return nil, apperrors.NewValidationError("unknown shift label", map[string]any{"shift": input.Shift})
	}
	dates, err := expandDates(input.From, input.To)
	if err != nil {
		return nil, err
	}

	member, err := s.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, lookupError(err, "staff member", input.StaffID)
	}
	if member.MonthlySchedule == nil {
		member.MonthlySchedule = map[string]domain.ShiftLabel{}
	}
	for _, key := range dates {
		if input.Shift == domain.ShiftOff {
			delete(member.MonthlySchedule, key)
			continue
		}
		member.MonthlySchedule[key] = input.Shift
	}
	member.UpdatedAt = s.clock.now(s.location)
	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("schedule painted",
		zap.String("staff_id", member.ID),
		zap.String("shift", string(input.Shift)),
		zap.Int("days", len(dates)),
	)
	return member, nil
}

// ShiftWindows returns the current hour windows.
func (s *StaffService) ShiftWindows(ctx context.Context) (domain.ShiftWindows, error) {
	windows, err := s.settings.ShiftWindows(ctx)
	return windows, apperrors.MapError(err)
}

// UpdateShiftWindows validates and stores new hour windows.
func (s *StaffService) UpdateShiftWindows(ctx context.Context, windows domain.ShiftWindows) (domain.ShiftWindows, error) {
	if err := windows.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.settings.SaveShiftWindows(ctx, windows); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("shift windows updated")
	return windows.Clone(), nil
}

// OnDuty resolves who of role is working at at; a zero at means now.
func (s *StaffService) OnDuty(ctx context.Context, role domain.StaffRole, at time.Time) (*OnDuty, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": role})
	}
	if at.IsZero() {
		at = s.clock.now(s.location)
	} else if s.location != nil {
		at = at.In(s.location)
	}
	windows, err := s.settings.ShiftWindows(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	roster, err := s.staff.List(ctx, repository.StaffFilter{Role: &role})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	slot := schedule.Resolve(at, windows)
	return &OnDuty{
		Role:    role,
		Shift:   slot.Shift,
		DateKey: slot.DateKey,
		At:      at,
		Staff:   schedule.OnDutyStaff(role, at, roster, windows),
	}, nil
}

// MasterData returns the read-only catalog.
func (s *StaffService) MasterData() domain.MasterData {
	return s.master
}

func expandDates(from, to string) ([]string, error) {
	start, err := time.Parse(domain.DateKeyLayout, strings.TrimSpace(from))
	if err != nil {
		return nil, apperrors.NewValidationError("from must be YYYY-MM-DD", map[string]any{"from": from})
	}
	end, err := time.Parse(domain.DateKeyLayout, strings.TrimSpace(to))
	if err != nil {
		return nil, apperrors.NewValidationError("to must be YYYY-MM-DD", map[string]any{"to": to})
	}
	if end.Before(start) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > MaxPaintDays {
		return nil, apperrors.NewValidationError("date range too long", map[string]any{"days": days, "max": MaxPaintDays})
	}
	keys := make([]string, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(domain.DateKeyLayout))
	}
	return keys, nil
}
