// Package clock supplies the timestamps stamped on games and players.
package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// New creates a System clock
func New() System {
	return System{}
}

// Now returns the current time in UTC at millisecond precision, with the
// monotonic reading stripped so a stored timestamp compares equal after a
// JSON or SQLite round trip.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
