package maze

import (
	"fmt"
	"math/rand"
)

// spawnPlan is the outcome of choosing pursuer start cells for a level.
type spawnPlan struct {
	cells     []Point
	requested int
	dynamic   bool
	minDist   float64
	attempts  int // samples drawn
}

// planSpawns returns the pursuer start cells for a level. Explicit markers
// win. Without markers, levels past the policy threshold get PursuerCount
// pursuers on random open cells at least DistanceFor(level) from the player
// spawn. Running out of attempts leaves the plan short, never failing.
func planSpawns(g *Grid, level int, params LevelParams, policy SpawnPolicy, rng *rand.Rand) spawnPlan {
	if markers := g.PursuerSpawnPositions(); len(markers) > 0 {
		return spawnPlan{cells: markers, requested: len(markers)}
	}
	if level <= policy.MinLevel || params.PursuerCount <= 0 {
		return spawnPlan{}
	}

	plan := spawnPlan{
		requested: params.PursuerCount,
		dynamic:   true,
		minDist:   policy.DistanceFor(level),
	}
	open := g.OpenCells()
	if len(open) == 0 {
		return plan
	}
	origin := g.SpawnPosition().Position()
	taken := make(map[Point]bool, params.PursuerCount)

	for plan.attempts < policy.Attempts && len(plan.cells) < plan.requested {
		plan.attempts++
		c := open[rng.Intn(len(open))]
		if taken[c] || c == g.SpawnPosition() {
			continue
		}
		if c.Position().Dist(origin) < plan.minDist {
			continue
		}
		taken[c] = true
		plan.cells = append(plan.cells, c)
	}
	return plan
}

// short reports whether fewer pursuers were placed than requested.
func (sp spawnPlan) short() bool {
	return len(sp.cells) < sp.requested
}

func (sp spawnPlan) String() string {
	return fmt.Sprintf("placed %d/%d (min_dist=%.1f attempts=%d)",
		len(sp.cells), sp.requested, sp.minDist, sp.attempts)
}
