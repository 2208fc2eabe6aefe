package maze

// BounceFactor is the fraction of a rejected axis displacement applied in
// the opposite direction, so a blocked entity recoils off the wall face
// instead of freezing against it.
const BounceFactor = 0.2

// Move is the outcome of resolving one displacement.
type Move struct {
	From, To  Position
	BlockedX  bool // X component hit a wall
	BlockedZ  bool // Z component hit a wall
	CornerCut bool // the combined move clipped a wall corner
}

// Blocked reports whether any part of the requested displacement was refused.
func (m Move) Blocked() bool {
	return m.BlockedX || m.BlockedZ || m.CornerCut
}

// Resolver applies displacements against a grid with per-axis wall sliding.
//
// Radius is the entity's half-extent in cells. A displacement is refused when
// either the cell under the entity's centre or the cell under its leading
// edge is a wall, so entities stop Radius short of a wall face. A zero radius
// tests the centre cell only.
type Resolver struct {
	grid   *Grid
	radius float64
}

// NewResolver returns a resolver for grid with the given body radius.
func NewResolver(g *Grid, radius float64) Resolver {
	if radius < 0 {
		radius = 0
	}
	if radius >= 0.5 {
		// a radius of half a cell or more would refuse to leave any cell
		radius = 0.49
	}
	return Resolver{grid: g, radius: radius}
}

// Grid returns the grid the resolver tests against.
func (r Resolver) Grid() *Grid { return r.grid }

// Resolve moves cur by (dx, dz). Axes are resolved X first, then Z using the
// updated X, then the combined result is checked for corner cutting. When cur
// is on a non-wall cell the returned position is too.
func (r Resolver) Resolve(cur Position, dx, dz float64) Move {
	m := Move{From: cur, To: cur}

	x := cur.X
	if dx != 0 {
		px := cur.X + dx
		if r.clear(px, cur.Z, sign(dx), 0) {
			x = px
		} else {
			m.BlockedX = true
			x = r.bounce(cur.X, dx, cur.Z, true)
		}
	}

	z := cur.Z
	if dz != 0 {
		pz := cur.Z + dz
		if r.clear(x, pz, 0, sign(dz)) {
			z = pz
		} else {
			m.BlockedZ = true
			z = r.bounce(cur.Z, dz, x, false)
		}
	}

	if r.clear(x, z, sign(x-cur.X), sign(z-cur.Z)) {
		m.To = Position{X: x, Z: z}
		return r.settle(m)
	}

	m.CornerCut = true
	switch {
	case !m.BlockedX && !m.BlockedZ:
		if r.clear(x, cur.Z, sign(dx), 0) {
			m.To = Position{X: x, Z: cur.Z}
			return r.settle(m)
		}
		if r.clear(cur.X, z, 0, sign(dz)) {
			m.To = Position{X: cur.X, Z: z}
			return r.settle(m)
		}
	case !m.BlockedZ:
		if r.clear(cur.X, z, 0, sign(dz)) {
			m.To = Position{X: cur.X, Z: z}
			return r.settle(m)
		}
	case !m.BlockedX:
		if r.clear(x, cur.Z, sign(dx), 0) {
			m.To = Position{X: x, Z: cur.Z}
			return r.settle(m)
		}
	}

	m.To = Position{
		X: cur.X - BounceFactor*dx,
		Z: cur.Z - BounceFactor*dz,
	}
	return r.settle(m)
}

// bounce returns the recoiled coordinate for a refused axis, or the original
// coordinate when the recoil itself would land in a wall. other is the
// coordinate on the perpendicular axis.
func (r Resolver) bounce(v, d, other float64, xAxis bool) float64 {
	b := v - BounceFactor*d
	cx, cz := roundCell(b), roundCell(other)
	if !xAxis {
		cx, cz = roundCell(other), roundCell(b)
	}
	if r.grid.IsWall(cx, cz) {
		return v
	}
	return b
}

// settle guarantees the resting cell is not a wall, falling back to From.
func (r Resolver) settle(m Move) Move {
	if r.grid.IsWallAt(m.To) && !r.grid.IsWallAt(m.From) {
		m.To = m.From
	}
	return m
}

// clear reports whether an entity centred at (x, z) and heading (sx, sz)
// overlaps no wall.
func (r Resolver) clear(x, z, sx, sz float64) bool {
	if r.grid.IsWall(roundCell(x), roundCell(z)) {
		return false
	}
	if r.radius == 0 || (sx == 0 && sz == 0) {
		return true
	}
	return !r.grid.IsWall(roundCell(x+sx*r.radius), roundCell(z+sz*r.radius))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
