package maze

import "time"

// Clock gates the simulation. While inactive nothing in a session moves.
// A zero limit means the level is untimed and never expires.
type Clock struct {
	active    bool
	limit     time.Duration
	elapsed   time.Duration
	remaining time.Duration
}

// NewClock returns an inactive clock with the given time limit.
func NewClock(limit time.Duration) *Clock {
	return &Clock{limit: limit, remaining: limit}
}

// Start activates the clock. Starting an expired clock has no effect.
func (c *Clock) Start() {
	if c.Expired() {
		return
	}
	c.active = true
}

// Stop freezes the clock.
func (c *Clock) Stop() { c.active = false }

// Active reports whether the simulation may run.
func (c *Clock) Active() bool { return c.active }

// Tick accumulates elapsed time while active and returns the remaining time.
// The clock deactivates itself when the limit runs out.
func (c *Clock) Tick(dt time.Duration) time.Duration {
	if !c.active || dt <= 0 {
		return c.remaining
	}
	c.elapsed += dt
	if c.limit > 0 {
		c.remaining -= dt
		if c.remaining <= 0 {
			c.remaining = 0
			c.active = false
		}
	}
	return c.remaining
}

// Expired reports whether a timed level has run out of time.
func (c *Clock) Expired() bool {
	return c.limit > 0 && c.remaining <= 0
}

// Elapsed returns the accumulated active time, which is the session's "now".
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// Remaining returns the time left, or zero on an untimed level.
func (c *Clock) Remaining() time.Duration { return c.remaining }

// Limit returns the level's time limit.
func (c *Clock) Limit() time.Duration { return c.limit }
