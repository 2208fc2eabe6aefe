package maze

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// PursuerState is the activity state of a pursuer.
type PursuerState int

const (
	PursuerAwake  PursuerState = iota // chasing the player
	PursuerAsleep                     // stationary and harmless
)

func (ps PursuerState) String() string {
	switch ps {
	case PursuerAwake:
		return "awake"
	case PursuerAsleep:
		return "asleep"
	default:
		return "unknown"
	}
}

// Pursuer is an agent that hunts the player through the maze.
type Pursuer struct {
	id     int
	label  string
	spawn  Point
	pos    Position
	facing float64 // radians, atan2(dz, dx) of the last step

	speedFactor float64
	state       PursuerState
	stateSince  time.Duration
	stateFor    time.Duration // randomized on every transition

	path       []Point
	pathCursor int
	repath     bool // recompute at the next opportunity regardless of interval

	lastMove         time.Duration
	moveInterval     time.Duration
	lastPathfind     time.Duration
	pathfindInterval time.Duration

	capturedTick int // tick of the last emitted capture, -1 if none
}

// pursuitEnv bundles what a pursuer needs from its session to act.
type pursuitEnv struct {
	mover  Resolver
	tuning Tuning
	rng    *rand.Rand
	log    *SimLog
}

// pursuitStep is the per-tick input a pursuer reads.
type pursuitStep struct {
	tick   int
	now    time.Duration
	player Position
	immune bool
}

// newPursuer creates an awake pursuer standing on spawn.
func newPursuer(id int, spawn Point, params LevelParams, now time.Duration, env *pursuitEnv) *Pursuer {
	return &Pursuer{
		id:               id,
		label:            fmt.Sprintf("H%d", id),
		spawn:            spawn,
		pos:              spawn.Position(),
		speedFactor:      params.SpeedFactor,
		state:            PursuerAwake,
		stateSince:       now,
		stateFor:         randDuration(env.rng, env.tuning.AwakeMin, env.tuning.AwakeMax),
		repath:           true,
		lastMove:         now,
		moveInterval:     params.MoveInterval,
		lastPathfind:     now,
		pathfindInterval: params.PathfindInterval,
		capturedTick:     -1,
	}
}

// ID returns the pursuer's creation index.
func (p *Pursuer) ID() int { return p.id }

// Label returns the short log label, e.g. "H0".
func (p *Pursuer) Label() string { return p.label }

// Spawn returns the cell the pursuer was placed on.
func (p *Pursuer) Spawn() Point { return p.spawn }

// Position returns the current continuous position.
func (p *Pursuer) Position() Position { return p.pos }

// Facing returns the heading of the last step in radians.
func (p *Pursuer) Facing() float64 { return p.facing }

// State returns Awake or Asleep.
func (p *Pursuer) State() PursuerState { return p.state }

// Path returns the remaining waypoints, or nil if the pursuer has no route.
func (p *Pursuer) Path() []Point {
	if p.path == nil || p.pathCursor >= len(p.path) {
		return nil
	}
	return p.path[p.pathCursor:]
}

// update runs one tick: sleep/wake, path refresh, movement, capture check.
func (p *Pursuer) update(env *pursuitEnv, st pursuitStep) (CaptureEvent, bool) {
	p.updateActivity(env, st)
	if p.state == PursuerAsleep {
		return CaptureEvent{}, false
	}

	if p.repath || st.now-p.lastPathfind > p.pathfindInterval {
		p.refreshPath(env, st)
	}
	if st.now-p.lastMove > p.moveInterval {
		p.lastMove = st.now
		p.move(env, st)
	}
	return p.CheckCapture(st.tick, st.now, st.player, env.tuning.CaptureRadius, st.immune)
}

// updateActivity handles the awake/asleep cycle.
func (p *Pursuer) updateActivity(env *pursuitEnv, st pursuitStep) {
	if st.now-p.stateSince <= p.stateFor {
		return
	}
	t := env.tuning
	switch p.state {
	case PursuerAwake:
		p.state = PursuerAsleep
		p.stateSince = st.now
		p.stateFor = randDuration(env.rng, t.SleepMin, t.SleepMax)
		p.path = nil
		p.pathCursor = 0
		env.log.Add(st.tick, p.label, "state", "change", "awake → asleep", p.stateFor.Seconds())

	case PursuerAsleep:
		if d := p.pos.Dist(st.player); d < t.WakeBlockRadius {
			p.stateSince = st.now
			p.stateFor = randDuration(env.rng, t.SleepMin, t.SleepMax)
			env.log.Add(st.tick, p.label, "state", "wake_deferred",
				fmt.Sprintf("player %.2f cells away", d), d)
			return
		}
		p.state = PursuerAwake
		p.stateSince = st.now
		p.stateFor = randDuration(env.rng, t.AwakeMin, t.AwakeMax)
		p.repath = true
		env.log.Add(st.tick, p.label, "state", "change", "asleep → awake", p.stateFor.Seconds())
	}
}

// refreshPath recomputes the route to the player's cell.
func (p *Pursuer) refreshPath(env *pursuitEnv, st pursuitStep) {
	p.lastPathfind = st.now
	p.pathCursor = 0
	from, to := p.pos.Cell(), st.player.Cell()
	p.path = FindPath(env.mover.Grid(), from, to)
	if p.path == nil {
		p.repath = true
		env.log.Add(st.tick, p.label, "path", "unreachable",
			fmt.Sprintf("%s → %s", from, to), 0)
		return
	}
	p.repath = false
	env.log.AddVerbose(st.tick, p.label, "path", "computed",
		fmt.Sprintf("%s → %s len=%d", from, to, len(p.path)), float64(len(p.path)))
}

// move takes one movement step, along the path if there is one and straight
// at the player otherwise.
func (p *Pursuer) move(env *pursuitEnv, st pursuitStep) {
	t := env.tuning
	tol := t.WaypointTolerance

	if p.path != nil {
		for p.pathCursor < len(p.path) && p.pos.Dist(p.path[p.pathCursor].Position()) <= tol {
			p.pathCursor++
		}
		if p.pathCursor >= len(p.path) {
			p.path = nil
			p.repath = true
		}
	}

	var target Position
	speed := t.ChaseSpeed * p.speedFactor
	following := p.path != nil
	if following {
		target = p.path[p.pathCursor].Position()
		speed = t.PathSpeed * p.speedFactor
	} else {
		target = st.player
	}

	dx, dz := target.X-p.pos.X, target.Z-p.pos.Z
	dist := math.Hypot(dx, dz)
	if dist < 1e-9 {
		return
	}
	step := math.Min(speed, dist)
	m := env.mover.Resolve(p.pos, dx/dist*step, dz/dist*step)
	p.pos = m.To
	if moved := math.Hypot(m.To.X-m.From.X, m.To.Z-m.From.Z); moved > 1e-9 {
		p.facing = math.Atan2(m.To.Z-m.From.Z, m.To.X-m.From.X)
	}

	if !following {
		return
	}
	if m.Blocked() {
		env.log.Add(st.tick, p.label, "path", "invalidated",
			fmt.Sprintf("wall toward %s", p.path[p.pathCursor]), 0)
		p.path = nil
		p.pathCursor = 0
		p.repath = true
		return
	}
	if p.pos.Dist(target) <= tol {
		p.pathCursor++
		if p.pathCursor >= len(p.path) {
			p.path = nil
			p.repath = true
		}
	}
}

// CheckCapture reports a capture when the pursuer is awake, the player is not
// immune, and the player is inside radius. At most one event is emitted per
// pursuer per tick.
func (p *Pursuer) CheckCapture(tick int, now time.Duration, player Position, radius float64, immune bool) (CaptureEvent, bool) {
	if immune || p.state != PursuerAwake || p.capturedTick == tick {
		return CaptureEvent{}, false
	}
	d := p.pos.Dist(player)
	if d >= radius {
		return CaptureEvent{}, false
	}
	p.capturedTick = tick
	return CaptureEvent{
		Tick:      tick,
		At:        now,
		PursuerID: p.id,
		Pursuer:   p.pos,
		Player:    player,
		Distance:  d,
	}, true
}

// randDuration returns a uniform duration in [lo, hi].
func randDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}
