package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	Name     string           `json:"name"`
	Role     domain.StaffRole `json:"role"`
	Position string           `json:"position"`
}

// UpdateStaffRequest payload; omitted fields are unchanged.
type UpdateStaffRequest struct {
	Name     *string           `json:"name"`
	Role     *domain.StaffRole `json:"role"`
	Position *string           `json:"position"`
}

// PaintScheduleRequest assigns shift to every date from..to.
type PaintScheduleRequest struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	Shift domain.ShiftLabel `json:"shift"`
}

// StaffResponse describes a roster entry.
type StaffResponse struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Role      domain.StaffRole             `json:"role"`
	Position  string                       `json:"position"`
	Schedule  map[string]domain.ShiftLabel `json:"monthly_schedule"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// ShiftWindowResponse is one configured window.
type ShiftWindowResponse struct {
	Shift      domain.ShiftLabel `json:"shift"`
	ShiftLabel string            `json:"shift_label"`
	StartHour  int               `json:"start"`
	EndHour    int               `json:"end"`
}

// OnDutyResponse is the resolver output for one role.
type OnDutyResponse struct {
	Role       domain.StaffRole  `json:"role"`
	Shift      domain.ShiftLabel `json:"shift"`
	ShiftLabel string            `json:"shift_label"`
	DateKey    string            `json:"date_key"`
	At         time.Time         `json:"at"`
	Staff      []StaffResponse   `json:"staff"`
}
