package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/Egg-Maze/internal/levels"
	"github.com/Garsondee/Egg-Maze/internal/maze"
)

type runStats struct {
	runIndex int
	report   maze.Report
	log      *maze.SimLog
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var level int
	var catalogPath string
	var pilotName string
	var dumpLog bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&level, "level", 0, "progression index (0-based, wraps around the catalog)")
	flag.StringVar(&catalogPath, "levels", "", "level catalog YAML (default: bundled levels)")
	flag.StringVar(&pilotName, "pilot", "auto", "player policy: auto or idle")
	flag.BoolVar(&dumpLog, "log", false, "print each run's full event log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	pilot, err := pilotByName(pilotName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	cat, err := levels.Load(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Maze Report ===\n")
	fmt.Printf("level=%d (%s) pilot=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		level, cat.Level(level).Name, pilotName, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runLevel(cat, level, seed, ticks, pilot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		rs.runIndex = i + 1
		all = append(all, rs)
		printRun(rs)
		if dumpLog {
			fmt.Print(rs.log.Format())
			fmt.Println()
		}
	}

	printAggregate(all)
}

func pilotByName(name string) (maze.Pilot, error) {
	switch name {
	case "auto":
		return maze.Autopilot{}, nil
	case "idle":
		return maze.Idle, nil
	default:
		return nil, fmt.Errorf("unsupported pilot %q (supported: auto, idle)", name)
	}
}

func runLevel(cat *maze.Catalog, level int, seed int64, ticks int, pilot maze.Pilot) (runStats, error) {
	h, err := maze.NewHarness(
		maze.WithCatalog(cat),
		maze.WithLevelIndex(level),
		maze.WithSeed(seed),
		maze.WithPilot(pilot),
	)
	if err != nil {
		return runStats{}, err
	}
	h.RunTicks(ticks)
	return runStats{report: maze.BuildReport(h.Session), log: h.Log}, nil
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.report.Seed)
	fmt.Print(rs.report.String())
	fmt.Println()
}

func printAggregate(all []runStats) {
	outcomes := map[string]int{}
	totalTicks := 0
	totalCollected := 0
	totalEggs := 0
	totalSleep := 0
	totalDeferred := 0
	totalUnreachable := 0
	totalInvalidated := 0
	totalShort := 0
	var elapsed time.Duration

	captureTicks := make([]int, 0, len(all))
	collectTicks := make([]int, 0, len(all))

	for _, rs := range all {
		r := rs.report
		outcomes[r.Status.String()]++
		totalTicks += r.Ticks
		totalCollected += r.Collections
		totalEggs += r.TotalEggs
		totalSleep += r.SleepTransitions
		totalDeferred += r.WakeDeferrals
		totalUnreachable += r.UnreachablePaths
		totalInvalidated += r.PathInvalidations
		totalShort += r.SpawnShortfall
		elapsed += r.Elapsed
		if r.FirstCaptureTick >= 0 {
			captureTicks = append(captureTicks, r.FirstCaptureTick)
		}
		if r.FirstCollectTick >= 0 {
			collectTicks = append(collectTicks, r.FirstCollectTick)
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes: %s\n", n, joinCounts(outcomes))
	fmt.Printf("avg_per_run: ticks=%.1f elapsed=%s eggs=%.1f/%.1f\n",
		avg(totalTicks, n), avgDuration(elapsed, n), avg(totalCollected, n), avg(totalEggs, n))
	fmt.Printf("avg_activity_per_run: sleep=%.1f wake_deferred=%.1f unreachable=%.1f invalidated=%.1f spawn_shortfall=%.1f\n",
		avg(totalSleep, n), avg(totalDeferred, n), avg(totalUnreachable, n), avg(totalInvalidated, n), avg(totalShort, n))
	fmt.Printf("phase_marker_avg_ticks: first_collect=%s first_capture=%s\n",
		avgTickString(collectTicks), avgTickString(captureTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgDuration(sum time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return (sum / time.Duration(n)).Round(time.Millisecond)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
