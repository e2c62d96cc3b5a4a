package domain

import "time"

// StaffRole enumerates plant roles that receive notifications.
type StaffRole string

const (
	StaffRoleMaintenance StaffRole = "MAINTENANCE"
	StaffRoleProduction  StaffRole = "PRODUCTION"
)

// Valid reports whether r is a known staff role.
func (r StaffRole) Valid() bool {
	return r == StaffRoleMaintenance || r == StaffRoleProduction
}

// DateKeyLayout formats the keys of a monthly schedule.
const DateKeyLayout = "2006-01-02"

// StaffMember models a plant worker with a monthly shift calendar.
type StaffMember struct {
	ID              string
	Name            string
	Role            StaffRole
	Position        string
	MonthlySchedule map[string]ShiftLabel
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ShiftOn returns the scheduled shift for dateKey; missing keys mean OFF.
func (s StaffMember) ShiftOn(dateKey string) ShiftLabel {
	if shift, ok := s.MonthlySchedule[dateKey]; ok && shift != "" {
		return shift
	}
	return ShiftOff
}

// Clone deep-copies the schedule map.
func (s StaffMember) Clone() StaffMember {
	c := s
	c.MonthlySchedule = make(map[string]ShiftLabel, len(s.MonthlySchedule))
	for k, v := range s.MonthlySchedule {
		c.MonthlySchedule[k] = v
	}
	return c
}
