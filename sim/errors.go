package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDelay is returned by Scheduler.ScheduleAfter for a negative delay.
	// The requesting process is aborted; sibling processes keep running.
	ErrInvalidDelay = errors.New("invalid delay: must be >= 0")

	// ErrAlreadyRun is returned when Run is called on a Simulator that already ran.
	ErrAlreadyRun = errors.New("simulator already ran")
)

// ConfigurationError reports an invalid parameter combination.
// It is always returned before any simulation work begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// InvariantError reports broken shared state (stock bounds, conservation,
// clock monotonicity, non-finite profit). It is fatal for the whole run.
type InvariantError struct {
	What string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.What
}
