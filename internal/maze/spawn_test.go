package maze

import (
	"math/rand"
	"testing"
)

func TestPlanSpawns_MarkersWin(t *testing.T) {
	g := mustGrid(t,
		"1111111",
		"1200031",
		"1000001",
		"1300001",
		"1111111",
	)
	params := LevelParams{PursuerCount: 5}
	plan := planSpawns(g, 9, params, DefaultSpawnPolicy(), rand.New(rand.NewSource(1)))
	if plan.dynamic {
		t.Fatal("marker levels should not use dynamic placement")
	}
	if len(plan.cells) != 2 || plan.short() {
		t.Fatalf("expected exactly the two markers, got %s", plan)
	}
	if plan.cells[0] != (Point{X: 5, Z: 1}) || plan.cells[1] != (Point{X: 1, Z: 3}) {
		t.Fatalf("unexpected marker cells %v", plan.cells)
	}
}

func TestPlanSpawns_NoneAtEarlyLevels(t *testing.T) {
	g, err := NewGrid(openRoom(15, 15))
	if err != nil {
		t.Fatal(err)
	}
	policy := DefaultSpawnPolicy()
	for level := 0; level <= policy.MinLevel; level++ {
		plan := planSpawns(g, level, LevelParams{PursuerCount: 3}, policy, rand.New(rand.NewSource(1)))
		if len(plan.cells) != 0 || plan.short() {
			t.Fatalf("level %d: expected no pursuers, got %s", level, plan)
		}
	}
}

func TestPlanSpawns_DynamicRespectsDistance(t *testing.T) {
	g, err := NewGrid(openRoom(15, 15))
	if err != nil {
		t.Fatal(err)
	}
	policy := DefaultSpawnPolicy()
	origin := g.SpawnPosition().Position()

	for seed := int64(1); seed <= 20; seed++ {
		for _, level := range []int{2, 3, 6, 12} {
			plan := planSpawns(g, level, LevelParams{PursuerCount: 3}, policy, rand.New(rand.NewSource(seed)))
			if !plan.dynamic || len(plan.cells) != 3 {
				t.Fatalf("seed %d level %d: expected 3 dynamic pursuers, got %s", seed, level, plan)
			}
			seen := map[Point]bool{}
			for _, c := range plan.cells {
				if g.IsWall(c.X, c.Z) || c == g.SpawnPosition() {
					t.Fatalf("seed %d level %d: bad cell %s", seed, level, c)
				}
				if seen[c] {
					t.Fatalf("seed %d level %d: duplicate cell %s", seed, level, c)
				}
				seen[c] = true
				if d := c.Position().Dist(origin); d < policy.DistanceFor(level) {
					t.Fatalf("seed %d level %d: %s only %.2f from spawn", seed, level, c, d)
				}
			}
		}
	}
}

func TestPlanSpawns_ShortWhenNoCellQualifies(t *testing.T) {
	policy := DefaultSpawnPolicy()
	policy.BaseDistance = 50
	policy.MinDistance = 50
	h := newTestHarness(t, WithLevelIndex(5), WithSpawnPolicy(policy))

	want := DefaultDifficulty().ForLevel(5).PursuerCount
	if got := h.Session.SpawnShortfall(); got != want {
		t.Fatalf("expected shortfall %d, got %d", want, got)
	}
	if len(h.Pursuers()) != 0 {
		t.Fatalf("expected no pursuers, got %d", len(h.Pursuers()))
	}
	warns := h.Log.Warnings()
	if len(warns) != 1 || warns[0].Key != "quota_short" {
		t.Fatalf("expected one quota_short warning, got %v", warns)
	}
	h.RunTicks(30)
	if h.Session.Status() != StatusRunning {
		t.Fatal("a short spawn plan must not stop the level")
	}
}

func TestSpawnPolicy_DistanceFor(t *testing.T) {
	sp := DefaultSpawnPolicy()
	tests := []struct {
		level int
		want  float64
	}{
		{0, 8},
		{2, 8},
		{3, 7.5},
		{6, 6},
		{10, 4},
		{50, 4},
	}
	for _, tc := range tests {
		if got := sp.DistanceFor(tc.level); got != tc.want {
			t.Fatalf("DistanceFor(%d) = %.2f, want %.2f", tc.level, got, tc.want)
		}
	}
}
