package services

import "time"

// Clock abstracts wall time so streak and last-accessed logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// dayOf truncates a time to its UTC calendar day. Streak comparisons always
// use UTC days so the result does not depend on the device's zone.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
