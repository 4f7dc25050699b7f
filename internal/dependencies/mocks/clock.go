package mocks

import (
	"time"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/clock"
)

// MockClock is a controllable clock for tests. Time only moves when a
// test calls Advance or Set, so join times, capture times and session
// expiries stay deterministic.
type MockClock struct {
	current time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the frozen time
func (c *MockClock) Now() time.Time {
	return c.current
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set jumps the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.current = t
}
