package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Neighbor is the result of a nearest-neighbor query: the index of the closest
// other agent and the Euclidean distance to it. OK is false when there is no
// other agent (population of one).
type Neighbor struct {
	Index int
	Dist  float64
	OK    bool
}

// NearestBrute scans every other agent and returns the closest one.
// O(N) per query, O(N²) for a full population pass. Ties are broken by the
// first-encountered index (ascending), so results are stable across runs.
func NearestBrute(pos []geometry.Vec3, i int) Neighbor {
	best := Neighbor{Index: -1, Dist: math.MaxFloat64}
	for j := range pos {
		if j == i {
			continue
		}
		if d := pos[i].DistanceSquaredTo(pos[j]); d < best.Dist {
			best.Dist = d
			best.Index = j
			best.OK = true
		}
	}
	if best.OK {
		best.Dist = math.Sqrt(best.Dist)
	} else {
		best.Dist = 0
	}
	return best
}

// ResolveAll computes the nearest neighbor for every agent in the snapshot
// with the brute-force scan.
func ResolveAll(s *Snapshot) []Neighbor {
	out := make([]Neighbor, s.Len())
	for i := range out {
		out[i] = NearestBrute(s.Pos, i)
	}
	return out
}

type cellKey struct {
	x, y, z int
}

// Grid is a spatial hash over the cubic domain used to prune nearest-neighbor
// candidates. It trades the O(N²) scan's constant factor for a cell walk while
// still returning the true nearest neighbor: the query expands cell shells
// outward until no unvisited cell can hold a closer agent.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]int
	pos      []geometry.Vec3
}

// NewGrid creates a grid with the given cell size. Sizes close to the expected
// nearest-neighbor distance keep the shell walk short; anything at or below
// zero is clamped to a sane minimum to avoid degenerate cells.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: math.Max(cellSize, 1e-3),
		cells:    make(map[cellKey][]int),
	}
}

// Rebuild reindexes the grid for the given positions. Cell slices are reset to
// length zero but keep their capacity, so steady-state rebuilds allocate
// almost nothing.
func (g *Grid) Rebuild(pos []geometry.Vec3) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.pos = pos
	for i, p := range pos {
		key := g.keyFor(p)
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *Grid) keyFor(p geometry.Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
		z: int(math.Floor(p.Z / g.cellSize)),
	}
}

// Nearest returns the true nearest neighbor of agent i, or OK=false when the
// index holds no other agent. Shells of cells are visited in increasing
// Chebyshev radius; once the best candidate is closer than the nearest
// possible point of the next shell, no further cells can win and the walk
// stops.
func (g *Grid) Nearest(i int) Neighbor {
	if len(g.pos) < 2 {
		return Neighbor{Index: -1}
	}

	center := g.keyFor(g.pos[i])
	best := Neighbor{Index: -1, Dist: math.MaxFloat64}

	// The domain is finite, so bound the walk by the spread of the index.
	maxShell := g.maxShellRadius(center)

	for r := 0; r <= maxShell; r++ {
		g.scanShell(center, r, i, &best)
		// Any point in shell r+1 is at least r*cellSize away from a point
		// inside the center cell.
		if best.Index >= 0 && best.Dist <= float64(r)*g.cellSize {
			break
		}
	}

	if best.Index < 0 {
		return Neighbor{Index: -1}
	}
	best.OK = true
	return best
}

// scanShell visits every cell at exactly Chebyshev distance r from the center
// and updates best with the closest candidate found, breaking distance ties by
// the lower agent index to match the brute-force scan order.
func (g *Grid) scanShell(center cellKey, r int, self int, best *Neighbor) {
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				if max3(abs(dx), abs(dy), abs(dz)) != r {
					continue
				}
				key := cellKey{center.x + dx, center.y + dy, center.z + dz}
				for _, j := range g.cells[key] {
					if j == self {
						continue
					}
					d := g.pos[self].DistanceTo(g.pos[j])
					if d < best.Dist || (d == best.Dist && j < best.Index) {
						best.Dist = d
						best.Index = j
					}
				}
			}
		}
	}
}

// maxShellRadius bounds the shell walk by the farthest occupied cell.
func (g *Grid) maxShellRadius(center cellKey) int {
	max := 0
	for k, ids := range g.cells {
		if len(ids) == 0 {
			continue
		}
		r := max3(abs(k.x-center.x), abs(k.y-center.y), abs(k.z-center.z))
		if r > max {
			max = r
		}
	}
	return max
}

// ResolveAllGrid computes nearest neighbors for the whole snapshot through the
// spatial grid. Results are identical to ResolveAll.
func ResolveAllGrid(s *Snapshot, g *Grid) []Neighbor {
	g.Rebuild(s.Pos)
	out := make([]Neighbor, s.Len())
	for i := range out {
		out[i] = g.Nearest(i)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
