package maze

import (
	"fmt"
	"strings"
	"time"
)

// Report summarises one session from its SimLog.
type Report struct {
	Level     int
	LevelName string
	Seed      int64
	Status    Status
	Ticks     int
	Elapsed   time.Duration

	Pursuers       int
	SpawnShortfall int

	Captures    int
	Collections int
	TotalEggs   int

	FirstCaptureTick int // -1 if none
	FirstCollectTick int // -1 if none

	SleepTransitions  int
	WakeTransitions   int
	WakeDeferrals     int
	UnreachablePaths  int
	PathInvalidations int
	Warnings          int
}

// BuildReport tallies the session's log.
func BuildReport(s *Session) Report {
	log := s.Log()
	r := Report{
		Level:            s.LevelIndex(),
		LevelName:        s.Level().Name,
		Seed:             s.cfg.Seed,
		Status:           s.Status(),
		Ticks:            s.Tick(),
		Elapsed:          s.Clock().Elapsed(),
		Pursuers:         len(s.pursuers),
		SpawnShortfall:   s.SpawnShortfall(),
		Captures:         log.CountCategory("capture", "player"),
		Collections:      log.CountCategory("collect", "egg"),
		TotalEggs:        len(s.Level().Eggs),
		FirstCaptureTick: firstTick(log, "capture", "player"),
		FirstCollectTick: firstTick(log, "collect", "egg"),
		WakeDeferrals:    log.CountCategory("state", "wake_deferred"),
		UnreachablePaths: log.CountCategory("path", "unreachable"),
		Warnings:         len(log.Warnings()),
	}
	r.PathInvalidations = log.CountCategory("path", "invalidated")
	for _, e := range log.Filter("state", "change") {
		switch {
		case strings.HasSuffix(e.Value, PursuerAsleep.String()):
			r.SleepTransitions++
		case strings.HasSuffix(e.Value, PursuerAwake.String()):
			r.WakeTransitions++
		}
	}
	return r
}

func firstTick(log *SimLog, category, key string) int {
	for _, e := range log.Entries() {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// String formats the report as the headless report's per-run block.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "level=%d (%s) seed=%d outcome=%s ticks=%d elapsed=%s\n",
		r.Level, r.LevelName, r.Seed, r.Status, r.Ticks, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "pursuers=%d spawn_shortfall=%d\n", r.Pursuers, r.SpawnShortfall)
	fmt.Fprintf(&sb, "eggs: collected=%d/%d first_collect=%d\n", r.Collections, r.TotalEggs, r.FirstCollectTick)
	fmt.Fprintf(&sb, "captures=%d first_capture=%d\n", r.Captures, r.FirstCaptureTick)
	fmt.Fprintf(&sb, "activity: sleep=%d wake=%d wake_deferred=%d\n", r.SleepTransitions, r.WakeTransitions, r.WakeDeferrals)
	fmt.Fprintf(&sb, "paths: unreachable=%d invalidated=%d warnings=%d\n", r.UnreachablePaths, r.PathInvalidations, r.Warnings)
	return sb.String()
}
