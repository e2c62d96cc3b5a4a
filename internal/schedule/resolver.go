// Package schedule resolves which staff are on duty at a given instant from
// their monthly shift calendars and the plant's shift windows.
package schedule

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// ActiveShift returns the shift whose window contains now's hour. Windows are
// checked MORNING, AFTERNOON, NIGHT and the first match wins; OFF when none
// matches.
func ActiveShift(now time.Time, windows domain.ShiftWindows) domain.ShiftLabel {
	hour := now.Hour()
	for _, label := range domain.WorkingShifts {
		window, ok := windows[label]
		if !ok {
			continue
		}
		if window.Contains(hour) {
			return label
		}
	}
	return domain.ShiftOff
}

// DateKey returns the schedule key to look up for shift at now. The early
// morning tail of a wrapping NIGHT shift belongs to the day the shift started.
func DateKey(now time.Time, shift domain.ShiftLabel, windows domain.ShiftWindows) string {
	day := now
	if shift == domain.ShiftNight {
		if window, ok := windows[domain.ShiftNight]; ok && window.Wraps() && now.Hour() < window.EndHour {
			day = now.AddDate(0, 0, -1)
		}
	}
	return day.Format(domain.DateKeyLayout)
}

// Slot is a resolved shift together with the schedule key it is filed under.
type Slot struct {
	Shift   domain.ShiftLabel
	DateKey string
}

// Resolve combines ActiveShift and DateKey.
func Resolve(now time.Time, windows domain.ShiftWindows) Slot {
	shift := ActiveShift(now, windows)
	return Slot{Shift: shift, DateKey: DateKey(now, shift, windows)}
}

// OnDutyStaff filters roster to members of role scheduled for the shift
// active at now.
func OnDutyStaff(role domain.StaffRole, now time.Time, roster []domain.StaffMember, windows domain.ShiftWindows) []domain.StaffMember {
	slot := Resolve(now, windows)
	result := make([]domain.StaffMember, 0)
	if slot.Shift == domain.ShiftOff {
		return result
	}
	for _, member := range roster {
		if member.Role != role {
			continue
		}
		if member.ShiftOn(slot.DateKey) == slot.Shift {
			result = append(result, member)
		}
	}
	return result
}

// Names returns the display names of members in order.
func Names(members []domain.StaffMember) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names
}
