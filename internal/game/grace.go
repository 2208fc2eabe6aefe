package game

import "time"

// Grace is a countdown during which the player cannot be caught. The
// session asks it through maze.Immunity; the game loop ticks it.
type Grace struct {
	left time.Duration
}

// Arm starts or extends the window to at least d.
func (g *Grace) Arm(d time.Duration) {
	if d > g.left {
		g.left = d
	}
}

// Tick counts down by dt.
func (g *Grace) Tick(dt time.Duration) {
	g.left -= dt
	if g.left < 0 {
		g.left = 0
	}
}

// Reset ends the window.
func (g *Grace) Reset() { g.left = 0 }

// Remaining returns the time left in the window.
func (g *Grace) Remaining() time.Duration { return g.left }

// IsPlayerImmune implements maze.Immunity.
func (g *Grace) IsPlayerImmune() bool { return g.left > 0 }
