package flock

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

func steeringParams() Params {
	p := DefaultParams()
	p.Boundary = 100
	p.MaxVelocity = 4
	p.MaxAcceleration = 0.5
	return p
}

func TestSteerAgent_AttractRepel(t *testing.T) {
	// Two agents at (0,0,0) and (10,0,0), both at rest.
	snap := &Snapshot{
		Pos: []geometry.Vec3{{}, {X: 10}},
		Vel: []geometry.Vec3{{}, {}},
	}
	nb := Neighbor{Index: 1, Dist: 10, OK: true}

	t.Run("Within avoidance distance repels", func(t *testing.T) {
		p := steeringParams()
		p.AvoidanceDistance = 25 // dist 10 <= 25

		acc, vel, pos := SteerAgent(snap, 0, nb, p, testRNG(1))

		// Positional term is dvec=(-10,0,0), velocity term zero: the raw
		// force normalizes to (-1,0,0) and clamps to max magnitude.
		want := geometry.Vec3{X: -p.MaxAcceleration}
		if !acc.Eq(want) {
			t.Errorf("acc = %v; want %v", acc, want)
		}
		if !vel.Eq(geometry.Vec3{}) {
			t.Errorf("vel = %v; want zero", vel)
		}
		if !pos.Eq(geometry.Vec3{}) {
			t.Errorf("pos = %v; want untouched origin", pos)
		}
	})

	t.Run("Beyond avoidance distance attracts", func(t *testing.T) {
		p := steeringParams()
		p.AvoidanceDistance = 5 // dist 10 > 5

		acc, _, _ := SteerAgent(snap, 0, nb, p, testRNG(1))

		// Positional term is (10,0,0) plus jitter in [0,0.1) per axis: the
		// direction is approximately +X.
		dir := acc.Normalize()
		if dir.X < 0.99 {
			t.Errorf("acc direction = %v; want approximately (+1,0,0)", dir)
		}
		if math.Abs(acc.Len()-p.MaxAcceleration) > geometry.Epsilon {
			t.Errorf("acc magnitude = %v; want %v", acc.Len(), p.MaxAcceleration)
		}
	})
}

func TestSteerAgent_VelocityMatching(t *testing.T) {
	// Neighbor overlaps in position influence but moves differently: the
	// velocity term must pull toward the neighbor's velocity.
	p := steeringParams()
	p.AvoidanceDistance = 25

	snap := &Snapshot{
		Pos: []geometry.Vec3{{}, {X: 10}},
		Vel: []geometry.Vec3{{}, {Y: 50}}, // dominant velocity difference
	}
	nb := Neighbor{Index: 1, Dist: 10, OK: true}

	acc, _, _ := SteerAgent(snap, 0, nb, p, testRNG(1))
	// raw = (0,50,0) + (-10,0,0): mostly +Y.
	if acc.Y <= 0 {
		t.Errorf("acc = %v; want positive Y component from velocity matching", acc)
	}
	if dir := acc.Normalize(); dir.Y < 0.9 {
		t.Errorf("acc direction = %v; want dominated by +Y", dir)
	}
}

func TestSteerAgent_Wander(t *testing.T) {
	p := steeringParams()

	t.Run("At origin yields zero vector", func(t *testing.T) {
		snap := &Snapshot{Pos: []geometry.Vec3{{}}, Vel: []geometry.Vec3{{}}}
		acc, _, _ := SteerAgent(snap, 0, Neighbor{Index: -1}, p, testRNG(1))
		if !acc.Eq(geometry.Vec3{}) {
			t.Errorf("acc = %v; want zero for isolated agent at origin", acc)
		}
	})

	t.Run("Off origin is clamped and deterministic per seed", func(t *testing.T) {
		snap := &Snapshot{Pos: []geometry.Vec3{{X: 30, Y: -20, Z: 10}}, Vel: []geometry.Vec3{{}}}

		acc1, _, _ := SteerAgent(snap, 0, Neighbor{Index: -1}, p, testRNG(42))
		acc2, _, _ := SteerAgent(snap, 0, Neighbor{Index: -1}, p, testRNG(42))
		if !acc1.Eq(acc2) {
			t.Errorf("same seed produced different wander: %v vs %v", acc1, acc2)
		}
		if math.Abs(acc1.Len()-p.MaxAcceleration) > geometry.Epsilon {
			t.Errorf("wander magnitude = %v; want %v", acc1.Len(), p.MaxAcceleration)
		}
	})
}

func TestSteerAgent_BoundaryAndClamp(t *testing.T) {
	p := steeringParams()
	p.AvoidanceDistance = 25

	t.Run("Out-of-bounds position is wrapped", func(t *testing.T) {
		snap := &Snapshot{
			Pos: []geometry.Vec3{{X: 110}, {X: 90}},
			Vel: []geometry.Vec3{{}, {}},
		}
		_, _, pos := SteerAgent(snap, 0, Neighbor{Index: 1, Dist: 20, OK: true}, p, testRNG(1))
		if !pos.Eq(geometry.Vec3{X: -90}) {
			t.Errorf("pos = %v; want wrapped (-90.00, 0.00, 0.00)", pos)
		}
	})

	t.Run("In-bounds position untouched", func(t *testing.T) {
		snap := &Snapshot{
			Pos: []geometry.Vec3{{X: 99, Y: -99, Z: 100}, {X: 90}},
			Vel: []geometry.Vec3{{}, {}},
		}
		_, _, pos := SteerAgent(snap, 0, Neighbor{Index: 1, Dist: 9, OK: true}, p, testRNG(1))
		if !pos.Eq(snap.Pos[0]) {
			t.Errorf("pos = %v; want untouched %v", pos, snap.Pos[0])
		}
	})

	t.Run("Velocity clamped to maximum", func(t *testing.T) {
		snap := &Snapshot{
			Pos: []geometry.Vec3{{}, {X: 10}},
			Vel: []geometry.Vec3{{X: 100, Y: 100}, {}},
		}
		_, vel, _ := SteerAgent(snap, 0, Neighbor{Index: 1, Dist: 10, OK: true}, p, testRNG(1))
		if vel.Len() > p.MaxVelocity+geometry.Epsilon {
			t.Errorf("vel magnitude = %v; want <= %v", vel.Len(), p.MaxVelocity)
		}
		// Direction preserved.
		if dir := vel.Normalize(); !dir.Eq(snap.Vel[0].Normalize()) {
			t.Errorf("vel direction changed: %v", dir)
		}
	})
}

func TestSteerAgent_CoincidentNeighbor(t *testing.T) {
	// Zero distance and zero velocity difference must not produce NaN: the
	// raw force is the zero dvec, which stays zero through normalization.
	p := steeringParams()
	snap := &Snapshot{
		Pos: []geometry.Vec3{{X: 5}, {X: 5}},
		Vel: []geometry.Vec3{{}, {}},
	}
	acc, _, _ := SteerAgent(snap, 0, Neighbor{Index: 1, Dist: 0, OK: true}, p, testRNG(1))
	if math.IsNaN(acc.X) || math.IsNaN(acc.Y) || math.IsNaN(acc.Z) {
		t.Fatalf("acc = %v; must be finite", acc)
	}
	if !acc.Eq(geometry.Vec3{}) {
		t.Errorf("acc = %v; want zero for coincident resting agents", acc)
	}
}
