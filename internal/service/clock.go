package service

import "time"

// Clock returns the current instant. Tests inject a fixed clock.
type Clock func() time.Time

func (c Clock) now(loc *time.Location) time.Time {
	if c == nil {
		c = time.Now
	}
	now := c()
	if loc != nil {
		now = now.In(loc)
	}
	return now
}
