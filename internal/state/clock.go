package state

import "sync/atomic"

// StrokeClock numbers strokes in the order their pointer-down arrived.
type StrokeClock struct {
	counter atomic.Uint64
}

// Tick starts a new stroke and returns its number.
func (c *StrokeClock) Tick() uint64 {
	return c.counter.Add(1)
}

// Current returns the number of the most recent stroke, zero if none.
func (c *StrokeClock) Current() uint64 {
	return c.counter.Load()
}

// Reset rewinds the clock, e.g. after the log it numbers was replaced.
func (c *StrokeClock) Reset(n uint64) {
	c.counter.Store(n)
}
