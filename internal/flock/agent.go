package flock

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Agent is the minimal kinematic record owned by the core: identity plus
// position, velocity and acceleration. Anything cosmetic (color, shape) is a
// host concern and is linked to the agent only by ID, see Appearance.
type Agent struct {
	ID  int
	Pos geometry.Vec3
	Vel geometry.Vec3
	Acc geometry.Vec3
}

// Population is an ordered collection of agents. Its size and the agent IDs
// are fixed for the simulation's lifetime: IDs are the slice indices and are
// never reassigned, so neighbor results and prior-tick state stay attributable
// across ticks.
type Population struct {
	agents []Agent
}

// NewPopulation seeds n agents at random positions within the bounded domain.
// Positions are sampled uniformly in [-boundary/2, boundary/2] per axis (half
// the domain's full extent, which leaves room to drift before the first wrap);
// velocity and acceleration start at zero.
func NewPopulation(n int, boundary float64, rng *rand.Rand) *Population {
	agents := make([]Agent, n)
	for i := range agents {
		agents[i] = Agent{
			ID: i,
			Pos: geometry.Vec3{
				X: (rng.Float64() - 0.5) * boundary,
				Y: (rng.Float64() - 0.5) * boundary,
				Z: (rng.Float64() - 0.5) * boundary,
			},
		}
	}
	return &Population{agents: agents}
}

// Len returns the population size.
func (p *Population) Len() int { return len(p.agents) }

// Agent returns a copy of the agent with the given id.
func (p *Population) Agent(id int) Agent { return p.agents[id] }

// Snapshot copies the current kinematic state into an immutable working set
// for one tick. The resolver and the force model only ever read a snapshot,
// so every read within a tick sees the prior tick's committed state.
func (p *Population) Snapshot() *Snapshot {
	s := &Snapshot{
		Pos: make([]geometry.Vec3, len(p.agents)),
		Vel: make([]geometry.Vec3, len(p.agents)),
	}
	for i, a := range p.agents {
		s.Pos[i] = a.Pos
		s.Vel[i] = a.Vel
	}
	return s
}

// Commit writes a tick's results back into the store. It is the single writer
// in the tick cycle: nothing reads the population between the start of Commit
// and its return, so a tick's results are never partially visible.
func (p *Population) Commit(res *TickResult) {
	for i := range p.agents {
		p.agents[i].Acc = res.Acc[i]
		p.agents[i].Vel = res.Vel[i]
		p.agents[i].Pos = res.Pos[i]
	}
}

// Advance applies the host-side kinematics integration (pos += vel*dt) and
// wraps the result back into the domain. The steering core never moves agents;
// this helper exists for hosts that do not bring their own integrator.
func (p *Population) Advance(dt, boundary float64) {
	for i := range p.agents {
		a := &p.agents[i]
		a.Pos = a.Pos.Add(a.Vel.Mul(dt)).Wrap(boundary)
	}
}

// Snapshot is the read-only working set consumed by the resolver and the
// force model during one tick.
type Snapshot struct {
	Pos []geometry.Vec3
	Vel []geometry.Vec3
}

// Len returns the number of agents in the snapshot.
func (s *Snapshot) Len() int { return len(s.Pos) }

// PositionMatrix lays the snapshot positions out as an N×3 dense matrix for
// the batched execution mode.
func (s *Snapshot) PositionMatrix() *mat.Dense {
	data := make([]float64, len(s.Pos)*3)
	for i, p := range s.Pos {
		data[i*3] = p.X
		data[i*3+1] = p.Y
		data[i*3+2] = p.Z
	}
	return mat.NewDense(len(s.Pos), 3, data)
}

// TickResult carries the new per-agent state produced by one tick, to be
// applied atomically by Population.Commit.
type TickResult struct {
	Acc []geometry.Vec3
	Vel []geometry.Vec3
	Pos []geometry.Vec3
}

func newTickResult(n int) *TickResult {
	return &TickResult{
		Acc: make([]geometry.Vec3, n),
		Vel: make([]geometry.Vec3, n),
		Pos: make([]geometry.Vec3, n),
	}
}
