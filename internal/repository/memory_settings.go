package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

type memorySettingsRepository struct {
	mu      sync.RWMutex
	windows domain.ShiftWindows
}

// NewMemorySettingsRepository starts from windows, or the defaults when nil.
func NewMemorySettingsRepository(windows domain.ShiftWindows) SettingsRepository {
	if windows == nil {
		windows = domain.DefaultShiftWindows()
	}
	return &memorySettingsRepository{windows: windows.Clone()}
}

func (r *memorySettingsRepository) ShiftWindows(context.Context) (domain.ShiftWindows, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.windows.Clone(), nil
}

func (r *memorySettingsRepository) SaveShiftWindows(_ context.Context, windows domain.ShiftWindows) error {
	r.mu.Lock()
	r.windows = windows.Clone()
	r.mu.Unlock()
	return nil
}
