package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

type memoryNotificationRepository struct {
	mu      sync.RWMutex
	records []domain.NotificationRecord
}

// NewMemoryNotificationRepository returns a process-local notification log.
func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{}
}

func (r *memoryNotificationRepository) Append(_ context.Context, record *domain.NotificationRecord) error {
	c := *record
	c.Recipients = append([]string(nil), record.Recipients...)
	r.mu.Lock()
	r.records = append(r.records, c)
	r.mu.Unlock()
	return nil
}

// List returns newest records first.
func (r *memoryNotificationRepository) List(_ context.Context, filter NotificationFilter) ([]domain.NotificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	result := []domain.NotificationRecord{}
	skipped := 0
	for i := len(r.records) - 1; i >= 0 && len(result) < limit; i-- {
		record := r.records[i]
		if filter.Role != nil && record.TargetRole != *filter.Role {
			continue
		}
		if filter.TicketID != "" && record.TicketID != filter.TicketID {
			continue
		}
		if filter.Suppressed != nil && record.Suppressed != *filter.Suppressed {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		record.Recipients = append([]string(nil), record.Recipients...)
		result = append(result, record)
	}
	return result, nil
}
