package testutil

import (
	"sync"
	"time"
)

// TripClock hands out evenly spaced timestamps for building itinerary fixtures.
//
// Each call to Next returns the previous value plus Step, so records created
// in sequence have strictly increasing timestamps without depending on wall time.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type TripClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int
}

// NewTripClock creates a clock whose first Next() returns start.
func NewTripClock(start time.Time, step time.Duration) *TripClock {
	return &TripClock{start: start, step: step}
}

// Next returns the next timestamp.
func (c *TripClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Current returns the most recently issued timestamp, or the zero time if
// Next has not been called.
func (c *TripClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == 0 {
		return time.Time{}
	}
	return c.start.Add(time.Duration(c.n-1) * c.step)
}

// Reset rewinds the clock so the next call returns start again.
func (c *TripClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
