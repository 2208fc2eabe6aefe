package maze

import (
	"strings"
	"testing"
	"time"
)

func TestBuildReport_Capture(t *testing.T) {
	opts := append(frozenPursuer(), WithPursuerAt(3, 1), WithPilot(east), WithEgg(2, 1), WithEgg(6, 6), WithSeed(7))
	h := newTestHarness(t, opts...)
	h.RunTicks(300)

	r := BuildReport(h.Session)
	if r.Status != StatusCaught || r.Captures != 1 {
		t.Fatalf("expected one capture, got %+v", r)
	}
	if r.FirstCaptureTick != h.Captures[0].Tick {
		t.Fatalf("first capture tick %d, want %d", r.FirstCaptureTick, h.Captures[0].Tick)
	}
	if r.Collections != 1 || r.TotalEggs != 2 || r.FirstCollectTick != h.Collections[0].Tick {
		t.Fatalf("unexpected egg tally %+v", r)
	}
	if r.FirstCollectTick >= r.FirstCaptureTick {
		t.Fatal("the egg at (2,1) is passed before the pursuer at (3,1) is reached")
	}
	if r.Pursuers != 1 || r.Seed != 7 || r.LevelName != "harness" {
		t.Fatalf("unexpected header %+v", r)
	}

	out := r.String()
	for _, want := range []string{"outcome=caught", "seed=7", "collected=1/2", "captures=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestBuildReport_CountsActivity(t *testing.T) {
	h := newTestHarness(t,
		WithPursuerAt(7, 7),
		WithTuning(func(tu *Tuning) {
			tu.AwakeMin = 100 * time.Millisecond
			tu.AwakeMax = 100 * time.Millisecond
			tu.SleepMin = 100 * time.Millisecond
			tu.SleepMax = 100 * time.Millisecond
		}),
	)
	h.RunTicks(60)

	r := BuildReport(h.Session)
	if r.SleepTransitions == 0 || r.WakeTransitions == 0 {
		t.Fatalf("expected sleep and wake transitions, got %+v", r)
	}
	if r.SleepTransitions < r.WakeTransitions {
		t.Fatalf("a pursuer cannot wake more often than it sleeps: %+v", r)
	}
	if r.Warnings != 0 || r.UnreachablePaths != 0 {
		t.Fatalf("unexpected problems in an open room: %+v", r)
	}
}
