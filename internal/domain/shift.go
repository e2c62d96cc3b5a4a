package domain

import "fmt"

// ShiftLabel names a shift in the monthly calendar.
type ShiftLabel string

const (
	ShiftMorning   ShiftLabel = "MORNING"
	ShiftAfternoon ShiftLabel = "AFTERNOON"
	ShiftNight     ShiftLabel = "NIGHT"
	ShiftOff       ShiftLabel = "OFF"
)

// Valid reports whether l is a known label, OFF included.
func (l ShiftLabel) Valid() bool {
	switch l {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftOff:
		return true
	}
	return false
}

// WorkingShifts is the fixed evaluation order for shift windows.
var WorkingShifts = []ShiftLabel{ShiftMorning, ShiftAfternoon, ShiftNight}

// ShiftWindow is an hour range; StartHour >= EndHour wraps past midnight.
type ShiftWindow struct {
	StartHour int `json:"start" yaml:"start"`
	EndHour   int `json:"end" yaml:"end"`
}

// Wraps reports whether the window crosses midnight.
func (w ShiftWindow) Wraps() bool {
	return w.StartHour >= w.EndHour
}

// Contains reports whether hour falls inside the window.
func (w ShiftWindow) Contains(hour int) bool {
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// ShiftWindows maps working shifts to their hour ranges.
type ShiftWindows map[ShiftLabel]ShiftWindow

// DefaultShiftWindows returns the stock three-shift plant rota.
func DefaultShiftWindows() ShiftWindows {
	return ShiftWindows{
		ShiftMorning:   {StartHour: 6, EndHour: 14},
		ShiftAfternoon: {StartHour: 14, EndHour: 22},
		ShiftNight:     {StartHour: 22, EndHour: 6},
	}
}

// Validate checks every working shift is present with hours in 0-23.
func (w ShiftWindows) Validate() error {
	for _, label := range WorkingShifts {
		window, ok := w[label]
		if !ok {
			return fmt.Errorf("missing window for %s", label)
		}
		if window.StartHour < 0 || window.StartHour > 23 || window.EndHour < 0 || window.EndHour > 23 {
			return fmt.Errorf("window for %s must use hours 0-23", label)
		}
	}
	for label := range w {
		if label == ShiftOff || !label.Valid() {
			return fmt.Errorf("unexpected shift label %q", label)
		}
	}
	return nil
}

// Clone copies the map.
func (w ShiftWindows) Clone() ShiftWindows {
	c := make(ShiftWindows, len(w))
	for k, v := range w {
		c[k] = v
	}
	return c
}
