package maze

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Immunity answers whether captures are currently suspended. The timer
// behind it belongs to the caller.
type Immunity interface {
	IsPlayerImmune() bool
}

// ImmunityFunc adapts a plain function to Immunity.
type ImmunityFunc func() bool

// IsPlayerImmune calls f.
func (f ImmunityFunc) IsPlayerImmune() bool { return f() }

// Config is everything a session needs besides its level. Build it once per
// level load; nothing in it is shared mutable state.
type Config struct {
	Level      int // zero-based progression index, drives difficulty
	Tuning     Tuning
	Difficulty Difficulty
	Spawn      SpawnPolicy
	Seed       int64
	Immunity   Immunity // nil means never immune
	Log        *SimLog  // nil gets a fresh non-verbose log
}

// DefaultConfig returns stock settings for a progression index.
func DefaultConfig(level int, seed int64) Config {
	s := DefaultSettings()
	return Config{
		Level:      level,
		Tuning:     s.Tuning,
		Difficulty: s.Difficulty,
		Spawn:      s.Spawn,
		Seed:       seed,
	}
}

// Status is the session's lifecycle stage.
type Status int

const (
	StatusReady    Status = iota // loaded, waiting for Start
	StatusRunning                // clock active, world moving
	StatusCaught                 // a pursuer caught the player
	StatusTimedOut               // the level clock ran out
	StatusCleared                // every egg collected
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusCaught:
		return "caught"
	case StatusTimedOut:
		return "timed_out"
	case StatusCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Over reports whether the session has reached an outcome.
func (s Status) Over() bool {
	return s == StatusCaught || s == StatusTimedOut || s == StatusCleared
}

// Intent is the player's requested movement direction. Lengths above one
// are scaled down to one.
type Intent struct {
	X, Z float64
}

// clamp scales the intent to at most unit length.
func (in Intent) clamp() Intent {
	l := math.Hypot(in.X, in.Z)
	if l <= 1 {
		return in
	}
	return Intent{X: in.X / l, Z: in.Z / l}
}

// TickResult is what one Advance call hands back to front ends.
type TickResult struct {
	Tick        int
	Now         time.Duration
	Remaining   time.Duration
	Status      Status
	Player      Position
	Captures    []CaptureEvent
	Collections []CollectionEvent
}

// Session owns one level's live state: the grid, the player, the pursuers
// and the clock. Front ends drive it by calling Advance once per frame.
type Session struct {
	level  *Level
	cfg    Config
	params LevelParams
	clock  *Clock
	env    pursuitEnv
	log    *SimLog

	player       Position
	playerFacing float64
	pursuers     []*Pursuer

	eggs      []Point
	collected []bool
	remaining int

	status    Status
	tick      int
	spawnPlan spawnPlan
}

// NewSession loads a level into a ready, inactive session.
func NewSession(lvl *Level, cfg Config) *Session {
	log := cfg.Log
	if log == nil {
		log = NewSimLog(false)
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- gameplay randomness
	s := &Session{
		level:     lvl,
		cfg:       cfg,
		params:    cfg.Difficulty.ForLevel(cfg.Level),
		clock:     NewClock(lvl.TimeLimit),
		log:       log,
		player:    lvl.Grid.SpawnPosition().Position(),
		eggs:      append([]Point(nil), lvl.Eggs...),
		collected: make([]bool, len(lvl.Eggs)),
		remaining: len(lvl.Eggs),
		status:    StatusReady,
	}
	s.env = pursuitEnv{
		mover:  NewResolver(lvl.Grid, cfg.Tuning.BodyRadius),
		tuning: cfg.Tuning,
		rng:    rng,
		log:    log,
	}

	s.spawnPlan = planSpawns(lvl.Grid, cfg.Level, s.params, cfg.Spawn, rng)
	for i, c := range s.spawnPlan.cells {
		p := newPursuer(i, c, s.params, 0, &s.env)
		s.pursuers = append(s.pursuers, p)
		log.Add(0, p.label, "spawn", "placed", c.String(), 0)
	}
	if s.spawnPlan.short() {
		log.Warn(0, "--", "spawn", "quota_short", s.spawnPlan.String(),
			float64(s.spawnPlan.requested-len(s.spawnPlan.cells)))
	}
	return s
}

// Start activates the clock and lets the world move.
func (s *Session) Start() {
	if s.status != StatusReady {
		return
	}
	s.status = StatusRunning
	s.clock.Start()
	s.log.Add(s.tick, "--", "clock", "started",
		fmt.Sprintf("level=%d limit=%s", s.cfg.Level, s.clock.Limit()), s.clock.Limit().Seconds())
}

// Advance runs one tick of dt simulated time with the player's intent.
// Nothing happens unless the session is running and dt is positive.
func (s *Session) Advance(in Intent, dt time.Duration) TickResult {
	if s.status != StatusRunning || !s.clock.Active() || dt <= 0 {
		return s.result(nil, nil)
	}
	s.tick++
	s.clock.Tick(dt)
	if s.clock.Expired() {
		s.finish(StatusTimedOut, "time up")
		return s.result(nil, nil)
	}
	now := s.clock.Elapsed()

	s.movePlayer(in, dt)
	collections := s.collectEggs(now)
	if s.remaining == 0 && len(s.eggs) > 0 {
		s.finish(StatusCleared, fmt.Sprintf("%d eggs", len(s.eggs)))
		return s.result(nil, collections)
	}

	step := pursuitStep{
		tick:   s.tick,
		now:    now,
		player: s.player,
		immune: s.cfg.Immunity != nil && s.cfg.Immunity.IsPlayerImmune(),
	}
	var captures []CaptureEvent
	for _, p := range s.pursuers {
		ev, caught := p.update(&s.env, step)
		s.log.AddVerbose(s.tick, p.label, "move", "position", p.pos.String(), 0)
		if !caught {
			continue
		}
		captures = append(captures, ev)
		s.log.Add(s.tick, p.label, "capture", "player",
			fmt.Sprintf("at %s dist=%.2f", ev.Player, ev.Distance), ev.Distance)
		s.finish(StatusCaught, p.label)
		break
	}
	return s.result(captures, collections)
}

func (s *Session) movePlayer(in Intent, dt time.Duration) {
	in = in.clamp()
	if in.X == 0 && in.Z == 0 {
		return
	}
	dist := s.cfg.Tuning.PlayerSpeed * dt.Seconds()
	m := s.env.mover.Resolve(s.player, in.X*dist, in.Z*dist)
	s.player = m.To
	s.playerFacing = math.Atan2(in.Z, in.X)
	s.log.AddVerbose(s.tick, "P", "move", "position", s.player.String(), 0)
}

func (s *Session) collectEggs(now time.Duration) []CollectionEvent {
	var out []CollectionEvent
	cell := s.player.Cell()
	for i, e := range s.eggs {
		if s.collected[i] || e != cell {
			continue
		}
		if r := s.cfg.Tuning.CollectRadius; r > 0 && s.player.Dist(e.Position()) > r {
			continue
		}
		s.collected[i] = true
		s.remaining--
		out = append(out, CollectionEvent{Tick: s.tick, At: now, Egg: e, Remaining: s.remaining})
		s.log.Add(s.tick, "P", "collect", "egg",
			fmt.Sprintf("%s remaining=%d", e, s.remaining), float64(s.remaining))
	}
	return out
}

func (s *Session) finish(st Status, detail string) {
	s.status = st
	s.clock.Stop()
	s.log.Add(s.tick, "--", "session", st.String(), detail, s.clock.Elapsed().Seconds())
}

func (s *Session) result(captures []CaptureEvent, collections []CollectionEvent) TickResult {
	return TickResult{
		Tick:        s.tick,
		Now:         s.clock.Elapsed(),
		Remaining:   s.clock.Remaining(),
		Status:      s.status,
		Player:      s.player,
		Captures:    captures,
		Collections: collections,
	}
}

// Status returns the lifecycle stage.
func (s *Session) Status() Status { return s.status }

// Tick returns the number of ticks advanced while running.
func (s *Session) Tick() int { return s.tick }

// Clock returns the session's clock for display.
func (s *Session) Clock() *Clock { return s.clock }

// Level returns the loaded level.
func (s *Session) Level() *Level { return s.level }

// LevelIndex returns the progression index.
func (s *Session) LevelIndex() int { return s.cfg.Level }

// Params returns the difficulty parameters in force.
func (s *Session) Params() LevelParams { return s.params }

// Log returns the session's event log.
func (s *Session) Log() *SimLog { return s.log }

// Player returns the player's position.
func (s *Session) Player() Position { return s.player }

// RemainingEggs returns the uncollected eggs in level order.
func (s *Session) RemainingEggs() []Point {
	out := make([]Point, 0, s.remaining)
	for i, e := range s.eggs {
		if !s.collected[i] {
			out = append(out, e)
		}
	}
	return out
}

// SpawnShortfall returns how many requested pursuers could not be placed.
func (s *Session) SpawnShortfall() int {
	return s.spawnPlan.requested - len(s.spawnPlan.cells)
}

// PursuerPath returns a copy of pursuer id's remaining waypoints.
func (s *Session) PursuerPath(id int) []Point {
	if id < 0 || id >= len(s.pursuers) {
		return nil
	}
	return append([]Point(nil), s.pursuers[id].Path()...)
}

// PursuerSnapshot is a read-only view of one pursuer.
type PursuerSnapshot struct {
	ID       int
	Label    string
	Position Position
	Facing   float64
	State    PursuerState
	PathLen  int
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Tick         int
	Now          time.Duration
	Remaining    time.Duration
	Status       Status
	Level        int
	LevelName    string
	Player       Position
	PlayerFacing float64
	Pursuers     []PursuerSnapshot
	Eggs         []Point
	Collected    int
	TotalEggs    int
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:         s.tick,
		Now:          s.clock.Elapsed(),
		Remaining:    s.clock.Remaining(),
		Status:       s.status,
		Level:        s.cfg.Level,
		LevelName:    s.level.Name,
		Player:       s.player,
		PlayerFacing: s.playerFacing,
		Eggs:         s.RemainingEggs(),
		Collected:    len(s.eggs) - s.remaining,
		TotalEggs:    len(s.eggs),
	}
	for _, p := range s.pursuers {
		snap.Pursuers = append(snap.Pursuers, PursuerSnapshot{
			ID:       p.id,
			Label:    p.label,
			Position: p.pos,
			Facing:   p.facing,
			State:    p.state,
			PathLen:  len(p.Path()),
		})
	}
	return snap
}
