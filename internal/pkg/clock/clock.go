// Package clock provides time utilities for the application
package clock

import (
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/theme-clash/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Manual is a Clock that only moves when told to. Room eviction tests
// drive it.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock stopped at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the clock's current time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
