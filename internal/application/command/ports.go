// Package command contains the write operations of the submission lifecycle
// engine (CQRS command side). Commands orchestrate the domain model against
// the submission store and publish domain events after every committed
// transition.
package command

import (
	"time"
)

// IDGenerator allocates submission ids.
type IDGenerator interface {
	NewID() string
}

// Clock is the engine's current-time source. Injected so transitions are
// reproducible in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// transitionRetries bounds the optimistic-concurrency retry loop. A lost race
// re-reads the submission and re-validates against the new status, which
// normally fails with a terminal or authorization error on the first retry.
const transitionRetries = 3
