package maze

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Tuning holds the level-independent behaviour constants.
type Tuning struct {
	// CaptureRadius is the distance in cells at which an awake pursuer
	// catches the player.
	CaptureRadius float64 `yaml:"capture_radius"`
	// WakeBlockRadius: a sleeping pursuer whose wake time comes up while
	// the player is closer than this keeps sleeping.
	WakeBlockRadius float64 `yaml:"wake_block_radius"`

	AwakeMin time.Duration `yaml:"awake_min"`
	AwakeMax time.Duration `yaml:"awake_max"`
	SleepMin time.Duration `yaml:"sleep_min"`
	SleepMax time.Duration `yaml:"sleep_max"`

	PlayerSpeed float64 `yaml:"player_speed"` // cells per second
	PathSpeed   float64 `yaml:"path_speed"`   // cells per movement step while following a path
	ChaseSpeed  float64 `yaml:"chase_speed"`  // cells per movement step without a path

	BodyRadius        float64 `yaml:"body_radius"`
	WaypointTolerance float64 `yaml:"waypoint_tolerance"`
	// CollectRadius is how close the player must get to an egg's cell centre.
	// Zero means entering the egg's cell is enough.
	CollectRadius float64 `yaml:"collect_radius"`
}

// DefaultTuning returns the baseline behaviour constants.
func DefaultTuning() Tuning {
	return Tuning{
		CaptureRadius:     0.7,
		WakeBlockRadius:   3.0,
		AwakeMin:          8 * time.Second,
		AwakeMax:          14 * time.Second,
		SleepMin:          3 * time.Second,
		SleepMax:          6 * time.Second,
		PlayerSpeed:       3.5,
		PathSpeed:         0.12,
		ChaseSpeed:        0.07,
		BodyRadius:        0.25,
		WaypointTolerance: 0.1,
	}
}

var ErrBadTuning = errors.New("maze: invalid tuning")

// Validate rejects tunings the pursuer loop cannot honour. Direct chase
// must stay slower than path following.
func (tu Tuning) Validate() error {
	switch {
	case tu.CaptureRadius <= 0:
		return fmt.Errorf("capture_radius %.2f must be positive: %w", tu.CaptureRadius, ErrBadTuning)
	case tu.WakeBlockRadius < 0, tu.BodyRadius < 0, tu.CollectRadius < 0, tu.WaypointTolerance < 0:
		return fmt.Errorf("negative radius or tolerance: %w", ErrBadTuning)
	case tu.PlayerSpeed <= 0 || tu.PathSpeed <= 0 || tu.ChaseSpeed <= 0:
		return fmt.Errorf("speeds must be positive: %w", ErrBadTuning)
	case tu.ChaseSpeed >= tu.PathSpeed:
		return fmt.Errorf("chase_speed %.3f not below path_speed %.3f: %w", tu.ChaseSpeed, tu.PathSpeed, ErrBadTuning)
	case tu.AwakeMin < 0 || tu.AwakeMin > tu.AwakeMax:
		return fmt.Errorf("awake range %s..%s: %w", tu.AwakeMin, tu.AwakeMax, ErrBadTuning)
	case tu.SleepMin < 0 || tu.SleepMin > tu.SleepMax:
		return fmt.Errorf("sleep range %s..%s: %w", tu.SleepMin, tu.SleepMax, ErrBadTuning)
	}
	return nil
}

// LevelParams are the pursuer parameters in force for one level.
type LevelParams struct {
	MoveInterval     time.Duration `yaml:"move_interval"`
	PathfindInterval time.Duration `yaml:"pathfind_interval"`
	SpeedFactor      float64       `yaml:"speed_factor"`
	PursuerCount     int           `yaml:"pursuer_count"`
}

var ErrBadDifficulty = errors.New("maze: invalid difficulty table")

// Difficulty maps a level index to LevelParams. Levels inside Table use
// their entry directly; later levels extrapolate from the last entry by
// applying the decay and growth factors once per extra level, bounded by
// the floors and caps.
type Difficulty struct {
	Table []LevelParams `yaml:"table"`

	IntervalDecay       float64       `yaml:"interval_decay"` // multiplier per extra level, <= 1
	SpeedGrowth         float64       `yaml:"speed_growth"`   // multiplier per extra level, >= 1
	LevelsPerPursuer    int           `yaml:"levels_per_pursuer"`
	MinMoveInterval     time.Duration `yaml:"min_move_interval"`
	MinPathfindInterval time.Duration `yaml:"min_pathfind_interval"`
	MaxSpeedFactor      float64       `yaml:"max_speed_factor"`
	MaxPursuers         int           `yaml:"max_pursuers"`
}

// DefaultDifficulty returns the stock progression.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		Table: []LevelParams{
			{MoveInterval: 50 * time.Millisecond, PathfindInterval: 1500 * time.Millisecond, SpeedFactor: 1.0, PursuerCount: 1},
			{MoveInterval: 45 * time.Millisecond, PathfindInterval: 1200 * time.Millisecond, SpeedFactor: 1.1, PursuerCount: 2},
			{MoveInterval: 40 * time.Millisecond, PathfindInterval: 1000 * time.Millisecond, SpeedFactor: 1.2, PursuerCount: 2},
			{MoveInterval: 35 * time.Millisecond, PathfindInterval: 800 * time.Millisecond, SpeedFactor: 1.3, PursuerCount: 3},
		},
		IntervalDecay:       0.92,
		SpeedGrowth:         1.05,
		LevelsPerPursuer:    2,
		MinMoveInterval:     16 * time.Millisecond,
		MinPathfindInterval: 250 * time.Millisecond,
		MaxSpeedFactor:      2.0,
		MaxPursuers:         8,
	}
}

// Validate rejects tables that would make a later level easier than an
// earlier one.
func (d Difficulty) Validate() error {
	if len(d.Table) == 0 {
		return fmt.Errorf("empty table: %w", ErrBadDifficulty)
	}
	for i, p := range d.Table {
		if p.MoveInterval < 0 || p.PathfindInterval < 0 || p.SpeedFactor <= 0 || p.PursuerCount < 0 {
			return fmt.Errorf("level %d has a negative or zero parameter: %w", i, ErrBadDifficulty)
		}
		if i == 0 {
			continue
		}
		prev := d.Table[i-1]
		switch {
		case p.MoveInterval > prev.MoveInterval:
			return fmt.Errorf("level %d move_interval grows: %w", i, ErrBadDifficulty)
		case p.PathfindInterval > prev.PathfindInterval:
			return fmt.Errorf("level %d pathfind_interval grows: %w", i, ErrBadDifficulty)
		case p.SpeedFactor < prev.SpeedFactor:
			return fmt.Errorf("level %d speed_factor shrinks: %w", i, ErrBadDifficulty)
		case p.PursuerCount < prev.PursuerCount:
			return fmt.Errorf("level %d pursuer_count shrinks: %w", i, ErrBadDifficulty)
		}
	}
	if d.IntervalDecay > 1 || d.IntervalDecay < 0 {
		return fmt.Errorf("interval_decay %.2f outside [0,1]: %w", d.IntervalDecay, ErrBadDifficulty)
	}
	if d.SpeedGrowth != 0 && d.SpeedGrowth < 1 {
		return fmt.Errorf("speed_growth %.2f below 1: %w", d.SpeedGrowth, ErrBadDifficulty)
	}
	return nil
}

// ForLevel returns the parameters for a zero-based level index.
func (d Difficulty) ForLevel(level int) LevelParams {
	if len(d.Table) == 0 {
		d.Table = DefaultDifficulty().Table
	}
	if level < 0 {
		level = 0
	}
	if level < len(d.Table) {
		return d.Table[level]
	}

	last := d.Table[len(d.Table)-1]
	extra := level - (len(d.Table) - 1)
	p := last

	if d.IntervalDecay > 0 {
		f := math.Pow(d.IntervalDecay, float64(extra))
		p.MoveInterval = maxDuration(time.Duration(float64(last.MoveInterval)*f), min(d.MinMoveInterval, last.MoveInterval))
		p.PathfindInterval = maxDuration(time.Duration(float64(last.PathfindInterval)*f), min(d.MinPathfindInterval, last.PathfindInterval))
	}
	if d.SpeedGrowth > 0 {
		p.SpeedFactor = last.SpeedFactor * math.Pow(d.SpeedGrowth, float64(extra))
		if d.MaxSpeedFactor > 0 && p.SpeedFactor > d.MaxSpeedFactor {
			p.SpeedFactor = max(d.MaxSpeedFactor, last.SpeedFactor)
		}
	}
	if d.LevelsPerPursuer > 0 {
		p.PursuerCount = last.PursuerCount + extra/d.LevelsPerPursuer
		if d.MaxPursuers > 0 && p.PursuerCount > d.MaxPursuers {
			p.PursuerCount = max(d.MaxPursuers, last.PursuerCount)
		}
	}
	return p
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// SpawnPolicy controls programmatic pursuer placement on levels that carry
// no pursuer markers.
type SpawnPolicy struct {
	// MinLevel: dynamic placement only happens when the level index
	// exceeds this.
	MinLevel int `yaml:"min_level"`
	// BaseDistance is the minimum Euclidean distance from the player spawn
	// at MinLevel+1, shrinking by DistanceStep per further level down to
	// MinDistance.
	BaseDistance float64 `yaml:"base_distance"`
	DistanceStep float64 `yaml:"distance_step"`
	MinDistance  float64 `yaml:"min_distance"`
	// Attempts is the total sampling budget across all pursuers.
	Attempts int `yaml:"attempts"`
}

// DefaultSpawnPolicy returns the stock placement rules.
func DefaultSpawnPolicy() SpawnPolicy {
	return SpawnPolicy{
		MinLevel:     1,
		BaseDistance: 8,
		DistanceStep: 0.5,
		MinDistance:  4,
		Attempts:     200,
	}
}

// DistanceFor returns the minimum spawn distance for a level.
func (sp SpawnPolicy) DistanceFor(level int) float64 {
	steps := level - sp.MinLevel - 1
	if steps < 0 {
		steps = 0
	}
	d := sp.BaseDistance - sp.DistanceStep*float64(steps)
	if d < sp.MinDistance {
		d = sp.MinDistance
	}
	return d
}
