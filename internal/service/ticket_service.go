package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/sla"
	"github.com/spec-kit/maintenance-service/internal/ticketid"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

const (
	maxBeforePhotos = 3

	// DefaultSymptomCategory is used when a request names no category.
	DefaultSymptomCategory = "기타"
	// DefaultUpdaterName is recorded when a status change names no updater.
	DefaultUpdaterName = "Maintenance team"

	receivedNote       = "Maintenance request received."
	additionalInfoNote = "Worker submitted additional information."
)

// TicketService owns ticket status, history, completion reports and
// additional info. Every mutation emits one notification.
type TicketService struct {
	tickets    repository.TicketRepository
	ids        *ticketid.Generator
	dispatcher Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	clock      Clock
	location   *time.Location

	createMu sync.Mutex
	ticketMu *keyedMutex
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	IDGenerator *ticketid.Generator
	Dispatcher  Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Clock       Clock
	Location    *time.Location
}

// TicketDraft describes a new maintenance request.
type TicketDraft struct {
	Line            string
	Machine         string
	Symptom         string
	SymptomCategory string
	Description     string
	Applicant       string
	Priority        domain.TicketPriority
	BeforePhotos    []string
}

// CompletionInput carries the technician-supplied part of a completion report.
type CompletionInput struct {
	ActionDetails string
	Parts         []string
	WorkDuration  string
}

// TransitionInput describes a status change. A nil AfterPhotos keeps the
// stored photos; a non-nil slice replaces them. Entering COMPLETED needs
// after photos on the same call.
type TransitionInput struct {
	TicketID    string
	NextStatus  domain.TicketStatus
	Note        string
	UpdaterName string
	AfterPhotos []string
	Completion  *CompletionInput
}

// AdditionalInfoInput is the worker's one-time follow-up.
type AdditionalInfoInput struct {
	Symptoms []string
	Text     string
	Photos   []string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		ids:        deps.IDGenerator,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		clock:      deps.Clock,
		location:   deps.Location,
		ticketMu:   newKeyedMutex(),
	}
}

// Create validates the draft, assigns the next daily id and stores the ticket as OPEN.
func (s *TicketService) Create(ctx context.Context, draft TicketDraft) (*domain.Ticket, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	s.createMu.Lock()
	now := s.clock.now(s.location)
	id, err := s.ids.Next(ctx, now)
	if err != nil {
		s.createMu.Unlock()
		return nil, err
	}

	category := strings.TrimSpace(draft.SymptomCategory)
	if category == "" {
		category = DefaultSymptomCategory
	}
	ticket := &domain.Ticket{
		ID:              id,
		Line:            strings.TrimSpace(draft.Line),
		Machine:         strings.TrimSpace(draft.Machine),
		Symptom:         strings.TrimSpace(draft.Symptom),
		SymptomCategory: category,
		Description:     strings.TrimSpace(draft.Description),
		Applicant:       strings.TrimSpace(draft.Applicant),
		Status:          domain.TicketStatusOpen,
		Priority:        draft.Priority,
		History: []domain.HistoryEntry{{
			Status:      domain.TicketStatusOpen,
			Timestamp:   now,
			Note:        receivedNote,
			UpdaterName: domain.SystemUpdater,
		}},
		BeforePhotos: append([]string(nil), draft.BeforePhotos...),
		AfterPhotos:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if rerr := s.ids.Release(ctx, now, id); rerr != nil {
			s.logger.Warn("ticket id release failed", zap.String("ticket_id", id), zap.Error(rerr))
		}
		s.createMu.Unlock()
		return nil, err
	}
	s.createMu.Unlock()

	s.metrics.TicketCreated()
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("priority", string(ticket.Priority)),
		zap.String("machine", ticket.Machine),
	)
	s.notify(ctx, domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    fmt.Sprintf("[Request received] A maintenance request was filed for %s.", displayMachine(ticket)),
		TicketID:   ticket.ID,
		DeepLink:   DetailLink(ticket.ID),
	})
	return ticket, nil
}

// Transition moves a ticket forward in the workflow, or records a progress
// note when the status is unchanged.
func (s *TicketService) Transition(ctx context.Context, input TransitionInput) (*domain.Ticket, error) {
	if !input.NextStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.NextStatus})
	}

	unlock := s.ticketMu.Lock(input.TicketID)
	defer unlock()

	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, lookupError(err, "ticket", input.TicketID)
	}
	if !isValidTransition(ticket.Status, input.NextStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   input.NextStatus,
		})
	}

	entering := input.NextStatus == domain.TicketStatusCompleted && ticket.Status != domain.TicketStatusCompleted
	var afterPhotos []string
	if input.AfterPhotos != nil {
		afterPhotos = compact(input.AfterPhotos)
	}
	if entering {
		if err := validateCompletion(input.Completion, afterPhotos); err != nil {
			return nil, err
		}
	}

	now := s.clock.now(s.location)
	updater := strings.TrimSpace(input.UpdaterName)
	if updater == "" {
		updater = DefaultUpdaterName
	}

	ticket.Status = input.NextStatus
	ticket.History = append(ticket.History, domain.HistoryEntry{
		Status:      input.NextStatus,
		Timestamp:   now,
		Note:        strings.TrimSpace(input.Note),
		UpdaterName: updater,
	})
	if input.AfterPhotos != nil {
		ticket.AfterPhotos = afterPhotos
	}
	if entering {
		ticket.CompletionReport = &domain.CompletionReport{
			ActionDetails: strings.TrimSpace(input.Completion.ActionDetails),
			Parts:         append([]string{}, input.Completion.Parts...),
			WorkDuration:  strings.TrimSpace(input.Completion.WorkDuration),
			CompletedBy:   updater,
			CompletedAt:   now,
		}
	}
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.TicketTransitioned(string(ticket.Status))
	s.logger.Info("ticket status updated",
		zap.String("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)),
		zap.String("updater", updater),
	)
	s.notify(ctx, domain.NotificationEvent{
		TargetRole: domain.StaffRoleProduction,
		Message:    fmt.Sprintf("[Status update] Maintenance for %s is now [%s].", displayMachine(ticket), ticket.Status),
		TicketID:   ticket.ID,
	})
	return ticket, nil
}

// SubmitAdditionalInfo attaches the worker follow-up. It may happen once per ticket.
func (s *TicketService) SubmitAdditionalInfo(ctx context.Context, id string, input AdditionalInfoInput) (*domain.Ticket, error) {
	info := domain.AdditionalInfo{
		Symptoms: compact(input.Symptoms),
		Text:     strings.TrimSpace(input.Text),
		Photos:   compact(input.Photos),
	}
	if info.Empty() {
		return nil, apperrors.NewValidationError("additional info requires symptoms, text or photos", nil)
	}

	unlock := s.ticketMu.Lock(id)
	defer unlock()

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "ticket", id)
	}
	if ticket.AdditionalInfo != nil {
		return nil, apperrors.NewConflict("additional info already submitted", map[string]any{"ticket_id": id})
	}

	now := s.clock.now(s.location)
	info.SubmittedAt = now
	ticket.AdditionalInfo = &info
	ticket.History = append(ticket.History, domain.HistoryEntry{
		Status:      ticket.Status,
		Timestamp:   now,
		Note:        additionalInfoNote,
		UpdaterName: domain.SystemUpdater,
	})
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("additional info submitted", zap.String("ticket_id", ticket.ID))
	s.notify(ctx, domain.NotificationEvent{
		TargetRole: domain.StaffRoleMaintenance,
		Message:    fmt.Sprintf("[Additional info] %s - %s", ticket.ID, displayMachine(ticket)),
		TicketID:   ticket.ID,
		DeepLink:   DetailLink(ticket.ID),
	})
	return ticket, nil
}

// Get fetches a ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "ticket", id)
	}
	return ticket, nil
}

// IsDelayed evaluates the SLA for ticket at the service clock.
func (s *TicketService) IsDelayed(ticket *domain.Ticket) bool {
	return sla.IsDelayed(ticket, s.clock.now(s.location))
}

// DetailLink is the maintenance console route for a ticket.
func DetailLink(id string) string {
	return "/maintenance/request/" + id
}

// notify hands the event to the router. The ticket is already stored, so a
// routing failure is logged and not returned.
func (s *TicketService) notify(ctx context.Context, event domain.NotificationEvent) {
	if s.dispatcher == nil {
		return
	}
	if _, err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Error("notification dispatch failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("role", string(event.TargetRole)),
			zap.Error(err),
		)
	}
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusCompleted},
	domain.TicketStatusInProgress: {domain.TicketStatusInProgress, domain.TicketStatusCompleted},
	domain.TicketStatusCompleted:  {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func validateDraft(draft TicketDraft) error {
	if !draft.Priority.Valid() {
		return apperrors.NewValidationError("priority is required", map[string]any{"priority": draft.Priority})
	}
	photos := compact(draft.BeforePhotos)
	if len(photos) == 0 || len(photos) > maxBeforePhotos || len(photos) != len(draft.BeforePhotos) {
		return apperrors.NewValidationError("between 1 and 3 before photos are required", map[string]any{
			"before_photos": len(draft.BeforePhotos),
		})
	}
	return nil
}

func validateCompletion(input *CompletionInput, afterPhotos []string) error {
	details := map[string]any{}
	if input == nil || strings.TrimSpace(input.ActionDetails) == "" {
		details["action_details"] = "required"
	}
	if input == nil || strings.TrimSpace(input.WorkDuration) == "" {
		details["work_duration"] = "required"
	}
	if len(compact(afterPhotos)) == 0 {
		details["after_photos"] = "at least one required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("completion report incomplete", details)
	}
	return nil
}

func lookupError(err error, resource, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func displayMachine(ticket *domain.Ticket) string {
	if ticket.Machine != "" {
		return ticket.Machine
	}
	return ticket.ID
}
