package clock

import "time"

// Clock is the arena's time source. Identities, rooms and history entries
// are all stamped from it so tests can pin timestamps.
type Clock interface {
	Now() time.Time

	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

func (c *SystemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
