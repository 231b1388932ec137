package services

import "time"

type clock struct {
	now func() time.Time
}

func newClock() clock {
	return clock{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source used for created/updated stamps.
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}
