package scheduler

import "time"

// Clock abstracts the scheduler's two time dependencies so tests can run
// the lifecycle against a controlled clock.
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// After returns a channel that fires once the duration has elapsed
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// NewWallClock returns the real-time clock used in production
func NewWallClock() Clock {
	return wallClock{}
}
