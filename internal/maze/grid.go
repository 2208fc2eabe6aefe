package maze

import (
	"errors"
	"fmt"
	"math"
)

// Cell is the contents of one maze square after level load.
type Cell uint8

const (
	CellOpen        Cell = iota // walkable floor
	CellWall                    // blocks movement and paths
	CellPlayerSpawn             // walkable, marks where the player starts
)

func (c Cell) String() string {
	switch c {
	case CellOpen:
		return "open"
	case CellWall:
		return "wall"
	case CellPlayerSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Level grid input markers.
const (
	MarkOpen         = 0
	MarkWall         = 1
	MarkPlayerSpawn  = 2
	MarkPursuerSpawn = 3
)

var (
	ErrEmptyGrid      = errors.New("maze: grid has no cells")
	ErrNotRectangular = errors.New("maze: grid is not rectangular")
	ErrNoPlayerSpawn  = errors.New("maze: grid has no player spawn")
	ErrMultipleSpawns = errors.New("maze: grid has more than one player spawn")
	ErrUnknownMarker  = errors.New("maze: unknown cell marker")
)

// Point is a discrete grid coordinate.
type Point struct {
	X, Z int
}

// Manhattan returns |dx| + |dz|.
func (p Point) Manhattan(q Point) int {
	return absInt(p.X-q.X) + absInt(p.Z-q.Z)
}

// Position returns the continuous position at the centre of the cell.
func (p Point) Position() Position {
	return Position{X: float64(p.X), Z: float64(p.Z)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Z)
}

// Position is a continuous location in grid-cell units. Cell centres sit on
// integer coordinates, so a cell spans [n-0.5, n+0.5).
type Position struct {
	X, Z float64
}

// Cell returns the grid cell the position rounds to.
func (p Position) Cell() Point {
	return Point{X: roundCell(p.X), Z: roundCell(p.Z)}
}

// Dist returns the Euclidean distance between two positions.
func (p Position) Dist(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Z-q.Z)
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Z)
}

// roundCell rounds half up, so 0.5 belongs to cell 1 and -0.5 to cell 0.
func roundCell(v float64) int {
	return int(math.Floor(v + 0.5))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is the immutable walkability map of one level.
type Grid struct {
	width    int
	height   int
	cells    []Cell // row-major, z*width + x
	spawn    Point
	pursuers []Point
}

// NewGrid builds a grid from rows of level markers indexed [z][x]. Pursuer
// spawn markers become open floor; their coordinates are kept in row-major
// order and returned by PursuerSpawnPositions.
func NewGrid(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w, h := len(rows[0]), len(rows)
	g := &Grid{
		width:  w,
		height: h,
		cells:  make([]Cell, w*h),
	}
	spawns := 0
	for z, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", z, len(row), w, ErrNotRectangular)
		}
		for x, mark := range row {
			var c Cell
			switch mark {
			case MarkOpen:
				c = CellOpen
			case MarkWall:
				c = CellWall
			case MarkPlayerSpawn:
				c = CellPlayerSpawn
				g.spawn = Point{X: x, Z: z}
				spawns++
			case MarkPursuerSpawn:
				c = CellOpen
				g.pursuers = append(g.pursuers, Point{X: x, Z: z})
			default:
				return nil, fmt.Errorf("marker %d at (%d,%d): %w", mark, x, z, ErrUnknownMarker)
			}
			g.cells[z*w+x] = c
		}
	}
	switch {
	case spawns == 0:
		return nil, ErrNoPlayerSpawn
	case spawns > 1:
		return nil, fmt.Errorf("%d spawn markers: %w", spawns, ErrMultipleSpawns)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, z) lies inside the grid.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.width && z < g.height
}

// At returns the cell at (x, z). Out-of-bounds reads as wall.
func (g *Grid) At(x, z int) Cell {
	if !g.InBounds(x, z) {
		return CellWall
	}
	return g.cells[z*g.width+x]
}

// IsWall returns true if the cell at (x, z) blocks movement.
func (g *Grid) IsWall(x, z int) bool {
	return g.At(x, z) == CellWall
}

// IsWallAt is IsWall for a continuous position.
func (g *Grid) IsWallAt(p Position) bool {
	c := p.Cell()
	return g.IsWall(c.X, c.Z)
}

// SpawnPosition returns the player spawn cell.
func (g *Grid) SpawnPosition() Point { return g.spawn }

// PursuerSpawnPositions returns the pursuer markers captured at construction.
func (g *Grid) PursuerSpawnPositions() []Point {
	out := make([]Point, len(g.pursuers))
	copy(out, g.pursuers)
	return out
}

// OpenCells lists every non-wall cell in row-major order.
func (g *Grid) OpenCells() []Point {
	var out []Point
	for z := 0; z < g.height; z++ {
		for x := 0; x < g.width; x++ {
			if g.cells[z*g.width+x] != CellWall {
				out = append(out, Point{X: x, Z: z})
			}
		}
	}
	return out
}
