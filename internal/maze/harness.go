package maze

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMarkerWithoutGrid is returned when a pursuer or egg marker is given
// without WithRows or WithGrid, or lands outside the grid.
var ErrMarkerWithoutGrid = errors.New("maze: harness marker needs a grid cell")

// DefaultTickRate is the simulated frame length the harness and front ends use.
const DefaultTickRate = time.Second / 60

// Pilot chooses the player's intent each tick.
type Pilot interface {
	Intent(s *Session) Intent
}

// PilotFunc adapts a function to Pilot.
type PilotFunc func(s *Session) Intent

// Intent calls f.
func (f PilotFunc) Intent(s *Session) Intent { return f(s) }

// Idle never moves.
var Idle Pilot = PilotFunc(func(*Session) Intent { return Intent{} })

// Autopilot walks the player to the nearest remaining egg along the
// shortest 4-connected route.
type Autopilot struct{}

// Intent steers toward the next cell on the route to the closest egg.
func (Autopilot) Intent(s *Session) Intent {
	eggs := s.RemainingEggs()
	if len(eggs) == 0 {
		return Intent{}
	}
	g := s.Level().Grid
	pos := s.Player()
	cell := pos.Cell()

	var route []Point
	for _, e := range eggs {
		r := search(g, cell, e)
		if r == nil {
			continue
		}
		if route == nil || len(r) < len(route) {
			route = r
		}
	}
	target := cell
	if len(route) > 0 {
		target = route[0]
	}
	dx, dz := float64(target.X)-pos.X, float64(target.Z)-pos.Z
	l := math.Hypot(dx, dz)
	if l < 1e-9 {
		return Intent{}
	}
	return Intent{X: dx / l, Z: dz / l}
}

// Harness drives a Session headlessly with deterministic simulated time.
// It is used by tests and the headless report.
type Harness struct {
	Session *Session
	Log     *SimLog
	Pilot   Pilot
	TickDT  time.Duration

	// collected over the run
	Captures    []CaptureEvent
	Collections []CollectionEvent

	rows    [][]int
	level   *Level
	eggs    []Point
	limit   time.Duration
	cfg     Config
	verbose bool
	noStart bool
	catalog *Catalog
	err     error
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra  harnessOptionKind = iota // grid, level, seed, settings
	harnessOptMarker                          // pursuer markers and eggs, applied to the grid rows
	harnessOptRun                             // pilot, immunity, tick rate
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithRows sets the level grid from digit rows, e.g. "11111", "12001".
func WithRows(rows ...string) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.rows, h.err = digitRows(rows)
	}}
}

// WithGrid sets the level grid from marker rows.
func WithGrid(rows [][]int) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.rows = make([][]int, len(rows))
		for i, r := range rows {
			h.rows[i] = append([]int(nil), r...)
		}
	}}
}

// WithLevel uses an already built level; grid options are ignored.
func WithLevel(lvl *Level) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.level = lvl }}
}

// WithCatalog takes settings from a catalog and, unless a grid or level is
// given, the catalog level for the configured index.
func WithCatalog(c *Catalog) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.catalog = c
		h.cfg.Tuning = c.Tuning
		h.cfg.Difficulty = c.Difficulty
		h.cfg.Spawn = c.Spawn
	}}
}

// WithLevelIndex sets the progression index.
func WithLevelIndex(i int) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.Level = i }}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.Seed = seed }}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.verbose = v }}
}

// WithTuning edits the behaviour constants.
func WithTuning(edit func(*Tuning)) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { edit(&h.cfg.Tuning) }}
}

// WithDifficulty replaces the difficulty table.
func WithDifficulty(d Difficulty) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.Difficulty = d }}
}

// WithSpawnPolicy replaces the dynamic spawn policy.
func WithSpawnPolicy(sp SpawnPolicy) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.Spawn = sp }}
}

// WithTimeLimit sets the level clock.
func WithTimeLimit(d time.Duration) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.limit = d }}
}

// WithPursuerAt places a pursuer marker on the grid rows. It only applies
// to a grid given by WithRows or WithGrid (or the default room); combined
// with WithLevel or a catalog level, NewHarness fails with
// ErrMarkerWithoutGrid.
func WithPursuerAt(x, z int) HarnessOption {
	return HarnessOption{harnessOptMarker, func(h *Harness) {
		if h.rows == nil || z < 0 || z >= len(h.rows) || x < 0 || x >= len(h.rows[z]) {
			h.markerErr(fmt.Errorf("pursuer at (%d,%d): %w", x, z, ErrMarkerWithoutGrid))
			return
		}
		h.rows[z][x] = MarkPursuerSpawn
	}}
}

// WithEgg adds an egg cell. Like WithPursuerAt it needs harness grid rows.
func WithEgg(x, z int) HarnessOption {
	return HarnessOption{harnessOptMarker, func(h *Harness) {
		if h.rows == nil {
			h.markerErr(fmt.Errorf("egg at (%d,%d): %w", x, z, ErrMarkerWithoutGrid))
			return
		}
		h.eggs = append(h.eggs, Point{X: x, Z: z})
	}}
}

func (h *Harness) markerErr(err error) {
	if h.err == nil {
		h.err = err
	}
}

// WithPilot sets the player policy. The default is Idle.
func WithPilot(p Pilot) HarnessOption {
	return HarnessOption{harnessOptRun, func(h *Harness) { h.Pilot = p }}
}

// WithImmunity sets the capture immunity query.
func WithImmunity(im Immunity) HarnessOption {
	return HarnessOption{harnessOptRun, func(h *Harness) { h.cfg.Immunity = im }}
}

// WithTickRate sets the simulated frame length.
func WithTickRate(dt time.Duration) HarnessOption {
	return HarnessOption{harnessOptRun, func(h *Harness) { h.TickDT = dt }}
}

// WithoutStart leaves the session in StatusReady.
func WithoutStart() HarnessOption {
	return HarnessOption{harnessOptRun, func(h *Harness) { h.noStart = true }}
}

// NewHarness constructs a Harness from the given options in ordered passes:
//  1. Infrastructure (grid or level, settings, seed, verbose)
//  2. Markers (pursuers, eggs) written into the grid rows
//  3. Run options (pilot, immunity, tick rate)
//
// The session is then built and started.
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	h := &Harness{
		Pilot:  Idle,
		TickDT: DefaultTickRate,
		cfg:    DefaultConfig(0, 1),
	}
	apply := func(kind harnessOptionKind) {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(h)
			}
		}
	}
	apply(harnessOptInfra)
	if h.err != nil {
		return nil, h.err
	}
	if h.rows == nil && h.level == nil && h.catalog == nil {
		h.rows = openRoom(9, 9)
	}
	apply(harnessOptMarker)
	if h.err != nil {
		return nil, h.err
	}
	apply(harnessOptRun)

	lvl := h.level
	if lvl == nil && h.rows == nil {
		lvl = h.catalog.Level(h.cfg.Level)
	}
	if lvl == nil {
		var err error
		lvl, err = NewLevel("harness", h.rows, h.eggs, h.limit)
		if err != nil {
			return nil, err
		}
	}

	h.Log = NewSimLog(h.verbose)
	h.cfg.Log = h.Log
	h.Session = NewSession(lvl, h.cfg)
	if !h.noStart {
		h.Session.Start()
	}
	return h, nil
}

// openRoom returns a walled w×h room with the player spawn at (1,1).
func openRoom(w, h int) [][]int {
	rows := make([][]int, h)
	for z := range rows {
		rows[z] = make([]int, w)
		for x := range rows[z] {
			if x == 0 || z == 0 || x == w-1 || z == h-1 {
				rows[z][x] = MarkWall
			}
		}
	}
	rows[1][1] = MarkPlayerSpawn
	return rows
}

// Step advances one tick with the pilot's intent.
func (h *Harness) Step() TickResult {
	res := h.Session.Advance(h.Pilot.Intent(h.Session), h.TickDT)
	h.Captures = append(h.Captures, res.Captures...)
	h.Collections = append(h.Collections, res.Collections...)
	return res
}

// RunTicks advances the session n ticks or until it is over.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n && !h.Session.Status().Over(); i++ {
		h.Step()
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.Step()
		if predicate(h) {
			return h.Session.Tick()
		}
		if h.Session.Status().Over() {
			return -1
		}
	}
	return -1
}

// Pursuers exposes the live pursuers for assertions.
func (h *Harness) Pursuers() []*Pursuer {
	return h.Session.pursuers
}
