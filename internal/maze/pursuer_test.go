package maze

import (
	"math"
	"testing"
	"time"
)

func newTestHarness(t *testing.T, opts ...HarnessOption) *Harness {
	t.Helper()
	h, err := NewHarness(opts...)
	if err != nil {
		t.Fatalf("NewHarness: %v", err)
	}
	return h
}

// neverSleep keeps pursuers awake for the whole test.
func neverSleep(tu *Tuning) {
	tu.AwakeMin = time.Hour
	tu.AwakeMax = time.Hour
}

// sleepAtOnce puts pursuers to sleep on the first tick for sleepFor.
func sleepAtOnce(sleepFor time.Duration) func(*Tuning) {
	return func(tu *Tuning) {
		tu.AwakeMin = 0
		tu.AwakeMax = 0
		tu.SleepMin = sleepFor
		tu.SleepMax = sleepFor
	}
}

func TestCheckCapture_WithinRadius(t *testing.T) {
	p := &Pursuer{pos: Position{X: 5.4, Z: 5.4}, state: PursuerAwake, capturedTick: -1}
	ev, ok := p.CheckCapture(1, time.Second, Position{X: 5, Z: 5}, 1.0, false)
	if !ok {
		t.Fatal("expected a capture at distance ~0.566 with radius 1.0")
	}
	if math.Abs(ev.Distance-math.Sqrt(0.32)) > 1e-9 {
		t.Fatalf("expected distance %.4f, got %.4f", math.Sqrt(0.32), ev.Distance)
	}
	if ev.Tick != 1 || ev.At != time.Second {
		t.Fatalf("unexpected event timing %+v", ev)
	}
}

func TestCheckCapture_OutsideRadius(t *testing.T) {
	p := &Pursuer{pos: Position{X: 6, Z: 5}, state: PursuerAwake, capturedTick: -1}
	if _, ok := p.CheckCapture(1, 0, Position{X: 5, Z: 5}, 1.0, false); ok {
		t.Fatal("distance equal to the radius should not capture")
	}
}

func TestCheckCapture_AsleepNeverCaptures(t *testing.T) {
	p := &Pursuer{pos: Position{X: 5, Z: 5}, state: PursuerAsleep, capturedTick: -1}
	if _, ok := p.CheckCapture(1, 0, Position{X: 5, Z: 5}, 1.0, false); ok {
		t.Fatal("a sleeping pursuer must not capture")
	}
}

func TestCheckCapture_ImmuneSkips(t *testing.T) {
	p := &Pursuer{pos: Position{X: 5, Z: 5}, state: PursuerAwake, capturedTick: -1}
	if _, ok := p.CheckCapture(1, 0, Position{X: 5, Z: 5}, 1.0, true); ok {
		t.Fatal("an immune player must not be captured")
	}
}

func TestCheckCapture_OncePerTick(t *testing.T) {
	p := &Pursuer{pos: Position{X: 5.4, Z: 5.4}, state: PursuerAwake, capturedTick: -1}
	player := Position{X: 5, Z: 5}
	if _, ok := p.CheckCapture(3, 0, player, 1.0, false); !ok {
		t.Fatal("expected first capture")
	}
	if _, ok := p.CheckCapture(3, 0, player, 1.0, false); ok {
		t.Fatal("second check in the same tick must not emit again")
	}
	if _, ok := p.CheckCapture(4, 0, player, 1.0, false); !ok {
		t.Fatal("a new tick may capture again")
	}
}

func TestPursuer_SleepingNeighbourIsHarmless(t *testing.T) {
	h := newTestHarness(t,
		WithPursuerAt(2, 1),
		WithTuning(sleepAtOnce(time.Hour)),
	)
	h.RunTicks(300)

	if len(h.Captures) != 0 {
		t.Fatalf("sleeping pursuer captured the player: %+v", h.Captures)
	}
	if st := h.Session.Status(); st != StatusRunning {
		t.Fatalf("expected session still running, got %s", st)
	}
	if h.Pursuers()[0].State() != PursuerAsleep {
		t.Fatal("expected the pursuer to stay asleep")
	}
	if got := h.Pursuers()[0].Position(); got != (Point{X: 2, Z: 1}).Position() {
		t.Fatalf("sleeping pursuer moved to %s", got)
	}
}

func TestPursuer_WakeDeferredNearPlayer(t *testing.T) {
	// Player at (1,1), pursuer two cells away: inside the wake-block radius.
	h := newTestHarness(t,
		WithPursuerAt(3, 1),
		WithTuning(sleepAtOnce(100*time.Millisecond)),
	)
	h.RunTicks(60)

	p := h.Pursuers()[0]
	if p.State() != PursuerAsleep {
		t.Fatalf("pursuer woke beside the player:\n%s", h.Log.Format())
	}
	if n := h.Log.CountCategory("state", "wake_deferred"); n == 0 {
		t.Fatalf("expected wake_deferred entries:\n%s", h.Log.Format())
	}
	if h.Log.HasEntry("state", "change", "asleep → awake") {
		t.Fatal("pursuer should never have woken")
	}
}

func TestPursuer_WakesWhenPlayerFar(t *testing.T) {
	h := newTestHarness(t,
		WithPursuerAt(7, 7),
		WithTuning(func(tu *Tuning) {
			tu.AwakeMin = 50 * time.Millisecond
			tu.AwakeMax = 50 * time.Millisecond
			tu.SleepMin = 100 * time.Millisecond
			tu.SleepMax = 100 * time.Millisecond
		}),
	)
	h.RunTicks(30)

	if !h.Log.HasEntry("state", "change", "awake → asleep") {
		t.Fatalf("expected the pursuer to fall asleep:\n%s", h.Log.Format())
	}
	if !h.Log.HasEntry("state", "change", "asleep → awake") {
		t.Fatalf("expected the pursuer to wake with the player far away:\n%s", h.Log.Format())
	}
	if h.Log.CountCategory("state", "wake_deferred") != 0 {
		t.Fatal("wake should not be deferred at distance")
	}
}

func TestPursuer_ChasesAndCatchesIdlePlayer(t *testing.T) {
	h := newTestHarness(t,
		WithPursuerAt(7, 7),
		WithTuning(neverSleep),
	)
	tick := h.RunUntil(func(h *Harness) bool { return len(h.Captures) > 0 }, 60*20)
	if tick < 0 {
		t.Fatalf("pursuer never caught the idle player; status=%s\n%s",
			h.Session.Status(), h.Log.Format())
	}
	if h.Session.Status() != StatusCaught {
		t.Fatalf("expected StatusCaught, got %s", h.Session.Status())
	}
	ev := h.Captures[0]
	if ev.Distance >= h.Session.cfg.Tuning.CaptureRadius {
		t.Fatalf("capture at %.2f outside radius", ev.Distance)
	}
	if h.Log.CountCategory("path", "unreachable") != 0 {
		t.Fatal("open room should always have a path")
	}
}

func TestPursuer_UnreachablePlayerFallsBackToDirectChase(t *testing.T) {
	// Player spawn (4,3) is sealed in; the pursuer starts at (1,1).
	h := newTestHarness(t,
		WithRows(
			"1111111",
			"1000001",
			"1000101",
			"1001211",
			"1000101",
			"1111111",
		),
		WithPursuerAt(1, 1),
		WithTuning(neverSleep),
	)
	p := h.Pursuers()[0]
	player := h.Session.Player()
	startDist := p.Position().Dist(player)

	h.RunTicks(300)

	if n := h.Log.CountCategory("path", "unreachable"); n < 2 {
		t.Fatalf("expected repeated unreachable retries, got %d", n)
	}
	if p.Path() != nil {
		t.Fatalf("expected no path, got %v", p.Path())
	}
	endDist := p.Position().Dist(player)
	if endDist > startDist-1 {
		t.Fatalf("direct chase made no progress: %.2f → %.2f", startDist, endDist)
	}
	if h.Session.Level().Grid.IsWallAt(p.Position()) {
		t.Fatalf("pursuer ended inside a wall at %s", p.Position())
	}
	if h.Session.Status() != StatusRunning {
		t.Fatalf("expected running session, got %s", h.Session.Status())
	}
}

func TestPursuer_RetriesPathNextTickAfterFailure(t *testing.T) {
	h := newTestHarness(t,
		WithRows(
			"1111111",
			"1000001",
			"1000101",
			"1001211",
			"1000101",
			"1111111",
		),
		WithPursuerAt(1, 1),
		WithTuning(neverSleep),
	)
	h.Step()
	h.Step()
	// The pathfind interval is far longer than two ticks; only the forced
	// retry explains a second attempt.
	if n := h.Log.CountCategory("path", "unreachable"); n != 2 {
		t.Fatalf("expected an unreachable attempt on each of the first two ticks, got %d", n)
	}
}

func TestPursuer_BlockedWaypointInvalidatesPath(t *testing.T) {
	h := newTestHarness(t,
		WithRows(
			"11111",
			"10001",
			"10101",
			"10021",
			"11111",
		),
		WithPursuerAt(1, 1),
		WithTuning(neverSleep),
	)
	p := h.Pursuers()[0]
	// A stale route that cuts the (2,2) pillar's corner.
	p.pos = Position{X: 1.3, Z: 1.3}
	p.path = []Point{{X: 2, Z: 2}}
	p.pathCursor = 0
	p.repath = false

	p.move(&h.Session.env, pursuitStep{tick: 1, now: time.Second, player: h.Session.Player()})

	if p.path != nil || !p.repath {
		t.Fatalf("expected the path to be dropped and a repath forced, got path=%v repath=%v", p.path, p.repath)
	}
	if !h.Log.HasEntry("path", "invalidated", "") {
		t.Fatal("expected an invalidated path entry")
	}
	if h.Session.Level().Grid.IsWallAt(p.pos) {
		t.Fatalf("pursuer moved into a wall at %s", p.pos)
	}
}

func TestPursuer_FacingFollowsMovement(t *testing.T) {
	h := newTestHarness(t,
		WithPursuerAt(7, 1),
		WithTuning(neverSleep),
	)
	h.RunTicks(10)
	p := h.Pursuers()[0]
	// Heading west toward the player at (1,1).
	if math.Abs(math.Abs(p.Facing())-math.Pi) > 1e-6 {
		t.Fatalf("expected facing ±π (west), got %.4f", p.Facing())
	}
}

func TestPursuer_DifficultyApplied(t *testing.T) {
	d := Difficulty{Table: []LevelParams{
		{MoveInterval: 40 * time.Millisecond, PathfindInterval: time.Second, SpeedFactor: 1.5, PursuerCount: 1},
	}}
	h := newTestHarness(t, WithPursuerAt(5, 5), WithDifficulty(d))
	p := h.Pursuers()[0]
	if p.moveInterval != 40*time.Millisecond || p.pathfindInterval != time.Second || p.speedFactor != 1.5 {
		t.Fatalf("difficulty not applied: move=%s path=%s speed=%.2f", p.moveInterval, p.pathfindInterval, p.speedFactor)
	}
}
