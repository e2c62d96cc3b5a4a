package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/sla"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 8
	maxPageSize     = 100
	topSymptoms     = 5
)

// TicketTab selects a listing tab. DELAYED is derived from the SLA, not stored.
type TicketTab string

const (
	TabAll        TicketTab = ""
	TabOpen       TicketTab = "OPEN"
	TabInProgress TicketTab = "IN_PROGRESS"
	TabCompleted  TicketTab = "COMPLETED"
	TabDelayed    TicketTab = "DELAYED"
)

// ReportService serves the admin console read models.
type ReportService struct {
	tickets  repository.TicketRepository
	metrics  *observability.Metrics
	clock    Clock
	location *time.Location
}

// ReportDependencies bundles collaborators for reporting.
type ReportDependencies struct {
	TicketRepo repository.TicketRepository
	Metrics    *observability.Metrics
	Clock      Clock
	Location   *time.Location
}

// NamedCount is one bar of a breakdown chart.
type NamedCount struct {
	Name  string
	Count int
}

// Dashboard is the admin overview.
type Dashboard struct {
	Total          int
	Pending        int
	CompletedToday int
	DelayedCount   int
	Delayed        []domain.Ticket
	ByLine         []NamedCount
	TopSymptoms    []NamedCount
	GeneratedAt    time.Time
}

// TicketQuery drives the admin ticket table.
type TicketQuery struct {
	Tab       TicketTab
	Search    string
	SortBy    repository.TicketSort
	Ascending bool
	Page      int
	PageSize  int
}

// TicketPage is one page of the admin ticket table.
type TicketPage struct {
	Items      []domain.Ticket
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		tickets:  deps.TicketRepo,
		metrics:  deps.Metrics,
		clock:    deps.Clock,
		location: deps.Location,
	}
}

// Dashboard aggregates counts over every ticket.
func (r *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	all, err := r.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := r.clock.now(r.location)
	today := now.Format(domain.DateKeyLayout)

	lines := map[string]int{}
	symptoms := map[string]int{}
	out := &Dashboard{Total: len(all), GeneratedAt: now}
	for i := range all {
		t := &all[i]
		if t.Status != domain.TicketStatusCompleted {
			out.Pending++
		}
		if completedOn(t, now.Location()) == today {
			out.CompletedToday++
		}
		lines[t.Line]++
		symptoms[t.Symptom]++
	}
	out.Delayed = sla.DelayedSet(all, now)
	out.DelayedCount = len(out.Delayed)
	out.ByLine = rankCounts(lines, 0)
	out.TopSymptoms = rankCounts(symptoms, topSymptoms)

	r.metrics.SetDelayed(out.DelayedCount)
	return out, nil
}

// Delayed returns open tickets past their SLA, newest first.
func (r *ReportService) Delayed(ctx context.Context) ([]domain.Ticket, error) {
	open, err := r.tickets.List(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sla.DelayedSet(open, r.clock.now(r.location)), nil
}

// ListTickets filters, sorts and pages the ticket table.
func (r *ReportService) ListTickets(ctx context.Context, query TicketQuery) (*TicketPage, error) {
	filter := repository.TicketFilter{
		Search:    query.Search,
		SortBy:    query.SortBy,
		Ascending: query.Ascending,
	}
	switch query.Tab {
	case TabAll:
	case TabOpen, TabInProgress, TabCompleted:
		filter.Statuses = []domain.TicketStatus{domain.TicketStatus(query.Tab)}
	case TabDelayed:
		filter.Statuses = []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress}
	default:
		return nil, apperrors.NewValidationError("unknown status tab", map[string]any{"tab": query.Tab})
	}
	if query.SortBy != "" && !validSort(query.SortBy) {
		return nil, apperrors.NewValidationError("unknown sort key", map[string]any{"sort": query.SortBy})
	}

	items, err := r.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if query.Tab == TabDelayed {
		items = sla.DelayedSet(items, r.clock.now(r.location))
	}
	return paginate(items, query.Page, query.PageSize), nil
}

func validSort(sortBy repository.TicketSort) bool {
	switch sortBy {
	case repository.SortByCreatedAt, repository.SortByID, repository.SortByPriority, repository.SortByStatus:
		return true
	}
	return false
}

func paginate(items []domain.Ticket, page, size int) *TicketPage {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return &TicketPage{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
}

// completedOn is the plant-local date of the first COMPLETED history entry.
func completedOn(ticket *domain.Ticket, loc *time.Location) string {
	for _, entry := range ticket.History {
		if entry.Status == domain.TicketStatusCompleted {
			return entry.Timestamp.In(loc).Format(domain.DateKeyLayout)
		}
	}
	return ""
}

// rankCounts sorts by count desc then name; limit <= 0 keeps everything.
func rankCounts(counts map[string]int, limit int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for name, count := range counts {
		if strings.TrimSpace(name) == "" {
			name = "Unspecified"
		}
		out = append(out, NamedCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
