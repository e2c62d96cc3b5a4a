package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

// NewMemoryTicketRepository returns a process-local ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; exists {
		return apperrors.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.ID})
	}
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; !exists {
		return apperrors.ErrNotFound
	}
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ticket.Clone(), nil
}

func (r *memoryTicketRepository) CountByIDPrefix(_ context.Context, prefix string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for id := range r.tickets {
		if strings.HasPrefix(id, prefix) {
			count++
		}
	}
	return count, nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if !matchesTicketFilter(ticket, filter) {
			continue
		}
		result = append(result, *ticket.Clone())
	}
	r.mu.RUnlock()

	less := ticketLess(filter.SortBy)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		if filter.Ascending {
			return less(a, b)
		}
		return less(b, a)
	})
	return result, nil
}

func matchesTicketFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	if search == "" {
		return true
	}
	for _, field := range []string{ticket.ID, ticket.Machine, ticket.Symptom, ticket.Applicant} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

var (
	statusRank   = map[domain.TicketStatus]int{domain.TicketStatusOpen: 0, domain.TicketStatusInProgress: 1, domain.TicketStatusCompleted: 2}
	priorityRank = map[domain.TicketPriority]int{domain.TicketPriorityHigh: 0, domain.TicketPriorityMedium: 1, domain.TicketPriorityLow: 2}
)

func ticketLess(sortBy TicketSort) func(a, b *domain.Ticket) bool {
	tieBreak := func(a, b *domain.Ticket) bool { return a.ID < b.ID }
	switch sortBy {
	case SortByID:
		return tieBreak
	case SortByStatus:
		return func(a, b *domain.Ticket) bool {
			if statusRank[a.Status] != statusRank[b.Status] {
				return statusRank[a.Status] < statusRank[b.Status]
			}
			return tieBreak(a, b)
		}
	case SortByPriority:
		return func(a, b *domain.Ticket) bool {
			ra, okA := priorityRank[a.Priority]
			rb, okB := priorityRank[b.Priority]
			if !okA {
				ra = priorityRank[domain.TicketPriorityMedium]
			}
			if !okB {
				rb = priorityRank[domain.TicketPriorityMedium]
			}
			if ra != rb {
				return ra < rb
			}
			return tieBreak(a, b)
		}
	default:
		return func(a, b *domain.Ticket) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return tieBreak(a, b)
		}
	}
}
