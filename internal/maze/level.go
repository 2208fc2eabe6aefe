package maze

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoLevels  = errors.New("maze: catalog has no levels")
	ErrEggOnWall = errors.New("maze: egg placed on a wall")
	ErrBadEgg    = errors.New("maze: egg coordinate must be [x, z]")
	ErrBadRow    = errors.New("maze: row contains a non-digit")
)

// Level is one authored maze: its grid, egg cells and time limit.
type Level struct {
	Name      string
	Grid      *Grid
	Eggs      []Point
	TimeLimit time.Duration // zero means untimed
}

// NewLevel builds a level from marker rows. Duplicate eggs collapse to one.
func NewLevel(name string, rows [][]int, eggs []Point, limit time.Duration) (*Level, error) {
	g, err := NewGrid(rows)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	seen := make(map[Point]bool, len(eggs))
	kept := make([]Point, 0, len(eggs))
	for _, e := range eggs {
		if g.IsWall(e.X, e.Z) {
			return nil, fmt.Errorf("level %q egg %s: %w", name, e, ErrEggOnWall)
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		kept = append(kept, e)
	}
	return &Level{Name: name, Grid: g, Eggs: kept, TimeLimit: limit}, nil
}

// Settings are the tunables shared by every level of a catalog.
type Settings struct {
	Tuning     Tuning      `yaml:"tuning"`
	Difficulty Difficulty  `yaml:"difficulty"`
	Spawn      SpawnPolicy `yaml:"spawn"`
}

// DefaultSettings returns the stock tunables.
func DefaultSettings() Settings {
	return Settings{
		Tuning:     DefaultTuning(),
		Difficulty: DefaultDifficulty(),
		Spawn:      DefaultSpawnPolicy(),
	}
}

// Catalog is a loaded set of levels plus their settings.
type Catalog struct {
	Settings
	Levels []*Level
}

type rawLevel struct {
	Name      string        `yaml:"name"`
	TimeLimit time.Duration `yaml:"time_limit"`
	Grid      [][]int       `yaml:"grid"`
	Rows      []string      `yaml:"rows"` // digit-per-cell shorthand for grid
	Eggs      [][]int       `yaml:"eggs"`
}

type rawCatalog struct {
	Settings `yaml:",inline"`
	Levels   []rawLevel `yaml:"levels"`
}

// ParseCatalog decodes a YAML catalog. Settings missing from the document
// keep their defaults.
func ParseCatalog(data []byte) (*Catalog, error) {
	raw := rawCatalog{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := raw.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := raw.Difficulty.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(raw.Levels) == 0 {
		return nil, ErrNoLevels
	}

	cat := &Catalog{Settings: raw.Settings}
	for i, rl := range raw.Levels {
		name := rl.Name
		if name == "" {
			name = fmt.Sprintf("level-%d", i+1)
		}
		rows := rl.Grid
		if len(rows) == 0 && len(rl.Rows) > 0 {
			var err error
			if rows, err = digitRows(rl.Rows); err != nil {
				return nil, fmt.Errorf("level %q: %w", name, err)
			}
		}
		eggs := make([]Point, 0, len(rl.Eggs))
		for _, e := range rl.Eggs {
			if len(e) != 2 {
				return nil, fmt.Errorf("level %q egg %v: %w", name, e, ErrBadEgg)
			}
			eggs = append(eggs, Point{X: e[0], Z: e[1]})
		}
		lvl, err := NewLevel(name, rows, eggs, rl.TimeLimit)
		if err != nil {
			return nil, err
		}
		cat.Levels = append(cat.Levels, lvl)
	}
	return cat, nil
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(raw)
}

// Level returns the authored level for a progression index. Indexes past
// the last level wrap around; difficulty keeps scaling with the index.
func (c *Catalog) Level(index int) *Level {
	if index < 0 {
		index = 0
	}
	return c.Levels[index%len(c.Levels)]
}

// Config returns the session configuration for a progression index.
func (c *Catalog) Config(index int, seed int64) Config {
	return Config{
		Level:      index,
		Tuning:     c.Tuning,
		Difficulty: c.Difficulty,
		Spawn:      c.Spawn,
		Seed:       seed,
	}
}

func digitRows(rows []string) ([][]int, error) {
	out := make([][]int, len(rows))
	for z, r := range rows {
		out[z] = make([]int, 0, len(r))
		for x, ch := range r {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("row %d col %d %q: %w", z, x, ch, ErrBadRow)
			}
			out[z] = append(out[z], int(ch-'0'))
		}
	}
	return out, nil
}
