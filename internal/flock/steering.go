package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// jitterScale bounds the per-axis symmetry-breaking jitter added when an agent
// steers toward a distant neighbor. Without it two agents approaching head-on
// can lock into an oscillation loop.
const jitterScale = 0.1

// SteerAgent converts one agent's snapshot state and its nearest-neighbor
// result into new acceleration, velocity and position values. This is the
// canonical per-agent rule: cohesion/separation against the single nearest
// neighbor, velocity matching, and bounded wandering when isolated.
//
// The returned acceleration is either zero or has magnitude exactly
// MaxAcceleration: a non-zero raw force is normalized to unit length first,
// so the clamp always lands on the limit. Velocity is the current velocity
// clamped to MaxVelocity (integration itself is host-owned). Position is
// wrapped only when a component has left the domain, otherwise untouched.
func SteerAgent(s *Snapshot, i int, nb Neighbor, p Params, rng *rand.Rand) (acc, vel, pos geometry.Vec3) {
	self := s.Pos[i]

	var raw geometry.Vec3
	if !nb.OK {
		raw = wander(self, rng)
	} else {
		dvec := self.Sub(s.Pos[nb.Index])
		velTerm := s.Vel[nb.Index].Sub(s.Vel[i])

		var posTerm geometry.Vec3
		if nb.Dist <= p.AvoidanceDistance {
			// Too close: push along the current separation direction.
			posTerm = dvec
		} else {
			// Too far: close the gap, jittered to break exact symmetry.
			posTerm = dvec.Mul(-1).Add(jitter(rng))
		}
		raw = velTerm.Add(posTerm)
	}

	// Zero-length forces stay zero; everything else becomes a unit vector
	// before the clamp, so the steering magnitude is constant.
	acc = raw.Normalize().Clamp(p.MaxAcceleration)

	pos = self
	if !pos.InBounds(p.Boundary) {
		pos = pos.Wrap(p.Boundary)
	}

	vel = s.Vel[i].Clamp(p.MaxVelocity)
	return acc, vel, pos
}

// wander produces the isolated-agent steering: a uniform random draw per axis
// in [-0.5, 0.5), scaled elementwise by the vector back toward the domain
// center, then normalized. An agent sitting exactly on the origin has nothing
// to scale by and yields the zero vector.
func wander(pos geometry.Vec3, rng *rand.Rand) geometry.Vec3 {
	r := geometry.Vec3{
		X: rng.Float64() - 0.5,
		Y: rng.Float64() - 0.5,
		Z: rng.Float64() - 0.5,
	}
	return r.ElemMul(pos.Mul(-1)).Normalize()
}

func jitter(rng *rand.Rand) geometry.Vec3 {
	return geometry.Vec3{
		X: rng.Float64() * jitterScale,
		Y: rng.Float64() * jitterScale,
		Z: rng.Float64() * jitterScale,
	}
}
