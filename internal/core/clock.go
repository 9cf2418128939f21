package core

import "time"

// FrameClock converts tick timestamps into elapsed milliseconds.
// The first frame after construction or Reset reports zero.
type FrameClock struct {
	last    time.Time
	started bool
}

// Elapsed returns milliseconds since the previous call.
// A timestamp earlier than the previous one reports zero.
func (c *FrameClock) Elapsed(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	d := now.Sub(c.last)
	c.last = now
	if d < 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

// Reset makes the next Elapsed call report zero.
func (c *FrameClock) Reset() {
	c.started = false
}
