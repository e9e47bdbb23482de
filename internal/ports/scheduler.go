package ports

import "time"

// Scheduler triggers the one-shot game-end callback. At most one schedule
// exists per game; scheduling again replaces the pending trigger.
type Scheduler interface {
	// Schedule arranges for fn to run once at the given time.
	Schedule(gameID string, at time.Time, fn func())

	// Cancel drops the pending trigger for the game, if any.
	Cancel(gameID string)
}
