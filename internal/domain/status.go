package domain

import "time"

// ResolveStatus compares a contest window against now.
// The window is half-open: a contest is ongoing from its start (inclusive)
// until its end (exclusive).
func ResolveStatus(start, end, now time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusOngoing
	default:
		return StatusPast
	}
}

// WithStatusAt returns a copy of c whose status is resolved at now.
func (c Contest) WithStatusAt(now time.Time) Contest {
	c.Status = ResolveStatus(c.StartTime, c.EndTime, now)
	return c
}
