package core

import (
	"time"
)

// Duration is a domain-specific wrapper around time.Duration
type Duration time.Duration

// Common duration constants
const (
	Millisecond Duration = Duration(time.Millisecond)
	Second               = Duration(time.Second)
)

// Std converts domain Duration to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the ledger clock
// Lock validity is compared against Now truncated to unix seconds.
type TimeProvider interface {
	// Now returns the current wall clock time
	Now() time.Time
	// Since returns the time elapsed since t, used for latency metrics
	Since(t time.Time) Duration
}
