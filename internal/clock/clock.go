// Package clock abstracts wall-clock time so timestamps on workspaces,
// projects and launch history can be made deterministic in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. Implementations always report UTC.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time in UTC.
func (c RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock implements Clock with a settable time for testing.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t.UTC()}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set updates the fixed time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t.UTC()
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Day formats t as the UTC calendar day used for activity buckets.
func Day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
