package flock

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// ResolveAllBatched computes every agent's nearest neighbor in one pass over
// the whole population. The squared pairwise distances come from the Gram
// matrix of the N×3 position matrix:
//
//	D²(i,j) = |p_i|² + |p_j|² − 2·(P·Pᵀ)(i,j)
//
// and each row is reduced to its arg-min excluding the diagonal, scanning
// ascending so distance ties resolve to the lowest index exactly like the
// scalar resolver.
func ResolveAllBatched(s *Snapshot) []Neighbor {
	n := s.Len()
	out := make([]Neighbor, n)
	if n < 2 {
		for i := range out {
			out[i] = Neighbor{Index: -1}
		}
		return out
	}

	p := s.PositionMatrix()
	var gram mat.Dense
	gram.Mul(p, p.T())

	normSq := make([]float64, n)
	for i := 0; i < n; i++ {
		row := p.RawRowView(i)
		normSq[i] = floats.Dot(row, row)
	}

	for i := 0; i < n; i++ {
		bestIdx, bestD2 := -1, math.MaxFloat64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d2 := normSq[i] + normSq[j] - 2*gram.At(i, j)
			// Cancellation can push tiny true distances below zero.
			if d2 < 0 {
				d2 = 0
			}
			if d2 < bestD2 {
				bestD2 = d2
				bestIdx = j
			}
		}
		out[i] = Neighbor{Index: bestIdx, Dist: math.Sqrt(bestD2), OK: true}
	}
	return out
}

// SteerBatched applies the vectorized force rule to the whole population at
// once: a delta matrix of vectors to each agent's nearest neighbor, scaled
// per row by a signed inverse-distance weight.
//
//	w_i = −1/d  when d ≤ avoidanceDistance (repel)
//	w_i = +1/d  when d > avoidanceDistance (attract)
//	w_i = 1     when d == 0 (coincident positions, no direction to take)
//
// Because |delta| == d, the weighted row is a unit vector whenever d > 0, so
// the clamp behaves exactly as in the scalar mode. This rule deliberately
// omits the scalar mode's velocity matching, wander and jitter terms; the two
// modes share neighbor selection but not force semantics.
func SteerBatched(s *Snapshot, nbs []Neighbor, p Params) *TickResult {
	n := s.Len()
	res := newTickResult(n)

	delta := mat.NewDense(n, 3, nil)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		nb := nbs[i]
		if !nb.OK {
			continue
		}
		d := s.Pos[nb.Index].Sub(s.Pos[i])
		delta.SetRow(i, []float64{d.X, d.Y, d.Z})

		switch {
		case nb.Dist == 0:
			weights[i] = 1
		case nb.Dist <= p.AvoidanceDistance:
			weights[i] = -1 / nb.Dist
		default:
			weights[i] = 1 / nb.Dist
		}
	}

	for i := 0; i < n; i++ {
		row := delta.RawRowView(i)
		floats.Scale(weights[i], row)
		acc := geometry.Vec3{X: row[0], Y: row[1], Z: row[2]}
		res.Acc[i] = acc.Clamp(p.MaxAcceleration)

		res.Vel[i] = s.Vel[i].Clamp(p.MaxVelocity)
		res.Pos[i] = s.Pos[i]
		if !res.Pos[i].InBounds(p.Boundary) {
			res.Pos[i] = res.Pos[i].Wrap(p.Boundary)
		}
	}
	return res
}
