package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

type memoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]domain.StaffMember
}

// NewMemoryStaffRepository returns a process-local roster.
func NewMemoryStaffRepository(seed ...domain.StaffMember) StaffRepository {
	r := &memoryStaffRepository{staff: make(map[string]domain.StaffMember, len(seed))}
	for _, member := range seed {
		r.staff[member.ID] = member.Clone()
	}
	return r
}

func (r *memoryStaffRepository) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.staff[staff.ID]; exists {
		return apperrors.NewConflict("staff member already exists", map[string]any{"staff_id": staff.ID})
	}
	r.staff[staff.ID] = staff.Clone()
	return nil
}

func (r *memoryStaffRepository) Update(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.staff[staff.ID]; !exists {
		return apperrors.ErrNotFound
	}
	r.staff[staff.ID] = staff.Clone()
	return nil
}

func (r *memoryStaffRepository) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := staff.Clone()
	return &c, nil
}

func (r *memoryStaffRepository) List(_ context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	r.mu.RLock()
	result := make([]domain.StaffMember, 0, len(r.staff))
	for _, staff := range r.staff {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		result = append(result, staff.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
