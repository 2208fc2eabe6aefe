package maze

import "time"

// CaptureEvent is emitted when an awake pursuer reaches the player.
type CaptureEvent struct {
	Tick      int
	At        time.Duration
	PursuerID int
	Pursuer   Position
	Player    Position
	Distance  float64
}

// CollectionEvent is emitted when the player picks up an egg.
type CollectionEvent struct {
	Tick      int
	At        time.Duration
	Egg       Point
	Remaining int // eggs still uncollected after this one
}
