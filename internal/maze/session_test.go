package maze

import (
	"math"
	"testing"
	"time"
)

var east = PilotFunc(func(*Session) Intent { return Intent{X: 1} })

func TestSession_ReadyDoesNothing(t *testing.T) {
	h := newTestHarness(t, WithPursuerAt(5, 5), WithoutStart())
	start := h.Session.Player()

	for i := 0; i < 30; i++ {
		res := h.Session.Advance(Intent{X: 1}, DefaultTickRate)
		if res.Status != StatusReady || res.Tick != 0 {
			t.Fatalf("ready session advanced: %+v", res)
		}
	}
	if h.Session.Player() != start {
		t.Fatalf("player moved before start: %s", h.Session.Player())
	}
	if got := h.Pursuers()[0].Position(); got != (Point{X: 5, Z: 5}).Position() {
		t.Fatalf("pursuer moved before start: %s", got)
	}
	if h.Session.Clock().Elapsed() != 0 {
		t.Fatal("clock ran before start")
	}

	h.Session.Start()
	if res := h.Session.Advance(Intent{}, DefaultTickRate); res.Status != StatusRunning || res.Tick != 1 {
		t.Fatalf("expected first running tick, got %+v", res)
	}
}

func TestSession_IntentIsClampedToUnitLength(t *testing.T) {
	h := newTestHarness(t, WithTickRate(100*time.Millisecond))
	res := h.Session.Advance(Intent{X: 3}, h.TickDT)
	want := 1 + DefaultTuning().PlayerSpeed*0.1
	if math.Abs(res.Player.X-want) > 1e-9 || res.Player.Z != 1 {
		t.Fatalf("expected player at (%.2f,1.00), got %s", want, res.Player)
	}
}

func TestSession_NonPositiveDtIsIgnored(t *testing.T) {
	h := newTestHarness(t, WithPursuerAt(5, 5))
	start := h.Session.Player()

	for _, dt := range []time.Duration{0, -500 * time.Millisecond} {
		res := h.Session.Advance(Intent{X: 1}, dt)
		if res.Tick != 0 || res.Player != start {
			t.Fatalf("dt=%s advanced the session: %+v", dt, res)
		}
	}
	if h.Session.Clock().Elapsed() != 0 {
		t.Fatal("clock moved on a non-positive dt")
	}
	if got := h.Pursuers()[0].Position(); got != (Point{X: 5, Z: 5}).Position() {
		t.Fatalf("pursuer moved on a non-positive dt: %s", got)
	}
}

func TestSession_TimesOut(t *testing.T) {
	h := newTestHarness(t, WithTimeLimit(100*time.Millisecond), WithPilot(east))
	h.RunTicks(60)

	if h.Session.Status() != StatusTimedOut {
		t.Fatalf("expected timed_out, got %s", h.Session.Status())
	}
	if h.Session.Clock().Remaining() != 0 || h.Session.Clock().Active() {
		t.Fatal("clock should be stopped at zero")
	}
	if !h.Log.HasEntry("session", "timed_out", "") {
		t.Fatal("expected a session timed_out entry")
	}

	tick, pos := h.Session.Tick(), h.Session.Player()
	res := h.Session.Advance(Intent{X: 1}, DefaultTickRate)
	if res.Tick != tick || res.Player != pos {
		t.Fatal("a finished session must not advance")
	}
}

func TestSession_CollectsEggsAndClears(t *testing.T) {
	h := newTestHarness(t, WithEgg(3, 1), WithEgg(5, 1), WithPilot(east))
	h.RunTicks(300)

	if h.Session.Status() != StatusCleared {
		t.Fatalf("expected cleared, got %s\n%s", h.Session.Status(), h.Log.Format())
	}
	if len(h.Collections) != 2 {
		t.Fatalf("expected two collections, got %+v", h.Collections)
	}
	first, second := h.Collections[0], h.Collections[1]
	if first.Egg != (Point{X: 3, Z: 1}) || first.Remaining != 1 {
		t.Fatalf("unexpected first collection %+v", first)
	}
	if second.Egg != (Point{X: 5, Z: 1}) || second.Remaining != 0 {
		t.Fatalf("unexpected second collection %+v", second)
	}
	if first.Tick >= second.Tick {
		t.Fatal("collections out of order")
	}
	if len(h.Session.RemainingEggs()) != 0 {
		t.Fatal("no eggs should remain")
	}
}

func TestSession_NoEggsNeverClears(t *testing.T) {
	h := newTestHarness(t, WithPilot(east))
	h.RunTicks(120)
	if h.Session.Status() != StatusRunning {
		t.Fatalf("egg-less level should keep running, got %s", h.Session.Status())
	}
}

// frozenPursuer keeps pursuers awake and rooted in place.
func frozenPursuer() []HarnessOption {
	return []HarnessOption{
		WithTuning(neverSleep),
		WithDifficulty(Difficulty{Table: []LevelParams{
			{MoveInterval: time.Hour, PathfindInterval: time.Hour, SpeedFactor: 1, PursuerCount: 1},
		}}),
	}
}

func TestSession_CaptureUsesPostMovePlayerPosition(t *testing.T) {
	opts := append(frozenPursuer(), WithPursuerAt(3, 1), WithPilot(east))
	h := newTestHarness(t, opts...)

	var res TickResult
	for i := 0; i < 120; i++ {
		res = h.Step()
		if len(res.Captures) > 0 {
			break
		}
	}
	if len(res.Captures) != 1 {
		t.Fatalf("expected one capture, got %+v", res.Captures)
	}
	ev := res.Captures[0]
	if ev.Player != res.Player {
		t.Fatalf("capture saw player at %s, tick ended at %s", ev.Player, res.Player)
	}
	if ev.Distance >= DefaultTuning().CaptureRadius {
		t.Fatalf("capture distance %.3f outside radius", ev.Distance)
	}
	if res.Status != StatusCaught {
		t.Fatalf("expected caught, got %s", res.Status)
	}
	if got := h.Log.CountCategory("capture", "player"); got != 1 {
		t.Fatalf("expected one capture log entry, got %d", got)
	}
}

func TestSession_ImmunitySuppressesCapture(t *testing.T) {
	opts := append(frozenPursuer(),
		WithPursuerAt(3, 1),
		WithPilot(east),
		WithImmunity(ImmunityFunc(func() bool { return true })),
	)
	h := newTestHarness(t, opts...)
	h.RunTicks(120)

	if len(h.Captures) != 0 {
		t.Fatalf("immune player was captured: %+v", h.Captures)
	}
	if h.Session.Status() != StatusRunning {
		t.Fatalf("expected running, got %s", h.Session.Status())
	}
}

func TestSession_FirstCaptureEndsTick(t *testing.T) {
	// Two frozen pursuers both in reach; only one capture is reported.
	opts := append(frozenPursuer(), WithPursuerAt(2, 1), WithPursuerAt(1, 2),
		WithTuning(func(tu *Tuning) { tu.CaptureRadius = 1.5 }))
	h := newTestHarness(t, opts...)
	res := h.Step()
	if len(res.Captures) != 1 || res.Captures[0].PursuerID != 0 {
		t.Fatalf("expected a single capture by pursuer 0, got %+v", res.Captures)
	}
}

func TestSession_SameSeedSameRun(t *testing.T) {
	run := func(seed int64) []Snapshot {
		h := newTestHarness(t, WithLevelIndex(3), WithSeed(seed), WithTuning(func(tu *Tuning) {
			tu.AwakeMin = 500 * time.Millisecond
			tu.AwakeMax = 2 * time.Second
			tu.SleepMin = 200 * time.Millisecond
			tu.SleepMax = time.Second
		}))
		var out []Snapshot
		for i := 0; i < 240 && !h.Session.Status().Over(); i++ {
			h.Step()
			out = append(out, h.Session.Snapshot())
		}
		return out
	}
	a, b := run(42), run(42)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	if len(a[0].Pursuers) == 0 {
		t.Fatal("expected dynamically placed pursuers")
	}
	for i := range a {
		if len(a[i].Pursuers) != len(b[i].Pursuers) {
			t.Fatalf("tick %d pursuer count differs", i)
		}
		for j := range a[i].Pursuers {
			if a[i].Pursuers[j] != b[i].Pursuers[j] {
				t.Fatalf("tick %d pursuer %d differs: %+v vs %+v", i, j, a[i].Pursuers[j], b[i].Pursuers[j])
			}
		}
	}
}

func TestSession_SnapshotCopiesState(t *testing.T) {
	h := newTestHarness(t, WithPursuerAt(7, 7), WithEgg(4, 4), WithLevelIndex(2))
	snap := h.Session.Snapshot()
	if snap.Status != StatusRunning || snap.Level != 2 || snap.LevelName != "harness" {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if len(snap.Pursuers) != 1 || snap.Pursuers[0].Label != "H0" {
		t.Fatalf("unexpected pursuers %+v", snap.Pursuers)
	}
	if snap.TotalEggs != 1 || snap.Collected != 0 || len(snap.Eggs) != 1 {
		t.Fatalf("unexpected eggs %+v", snap)
	}
	snap.Eggs[0] = Point{}
	if h.Session.RemainingEggs()[0] != (Point{X: 4, Z: 4}) {
		t.Fatal("snapshot shares egg storage with the session")
	}
}
