package flock

import (
	"math/rand/v2"
	"sync"
)

// Mode selects the tick execution strategy.
type Mode int

const (
	// ModeScalar evaluates agents one at a time with the canonical steering
	// rule (velocity matching, wander, jitter).
	ModeScalar Mode = iota
	// ModeBatched evaluates the whole population through the matrix form.
	// Its force rule is the simplified inverse-distance weighting; see
	// SteerBatched.
	ModeBatched
)

func (m Mode) String() string {
	if m == ModeBatched {
		return "batched"
	}
	return "scalar"
}

// ComputeTick applies the scalar steering rule to an entire snapshot and
// returns the new per-agent state. It is pure over the snapshot: nothing is
// mutated, all reads see the same committed prior-tick state.
//
// Agents are independent within a tick, so the work fans out across
// p.Workers goroutines. Each agent draws from its own PCG stream keyed by
// (seed, agent id), which makes the result identical for any worker count.
func ComputeTick(s *Snapshot, nbs []Neighbor, p Params, seed uint64) *TickResult {
	n := s.Len()
	res := newTickResult(n)

	compute := func(i int) {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		res.Acc[i], res.Vel[i], res.Pos[i] = SteerAgent(s, i, nbs[i], p, rng)
	}

	workers := p.Workers
	if workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			compute(i)
		}
		return res
	}
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				compute(i)
			}
		}(lo, hi)
	}
	wg.Wait()
	return res
}

// Scheduler drives the per-tick sequence in fixed order:
// Snapshot → Resolve → Compute forces → Commit. Ticks are strictly
// sequential; Step never overlaps with itself and the next tick's snapshot
// only ever sees fully committed state.
type Scheduler struct {
	params Params
	mode   Mode
	grid   *Grid // optional candidate index for the scalar resolver
	seed   uint64
	tick   uint64
}

// NewScheduler builds a scheduler for the given parameters and mode.
func NewScheduler(p Params, mode Mode) *Scheduler {
	return &Scheduler{params: p, mode: mode, seed: p.Seed}
}

// UseGrid installs a spatial index for the scalar resolver. The grid prunes
// candidates but still yields the true nearest neighbor, so the force-model
// contract is unchanged.
func (t *Scheduler) UseGrid(g *Grid) { t.grid = g }

// Tick returns the number of completed steps.
func (t *Scheduler) Tick() uint64 { return t.tick }

// Step runs one tick against the population and commits the result. The
// returned neighbors and result are the inputs and outputs of this tick, for
// hosts that want to observe them (telemetry, tests).
func (t *Scheduler) Step(pop *Population) ([]Neighbor, *TickResult) {
	snap := pop.Snapshot()

	var nbs []Neighbor
	var res *TickResult
	switch t.mode {
	case ModeBatched:
		nbs = ResolveAllBatched(snap)
		res = SteerBatched(snap, nbs, t.params)
	default:
		if t.grid != nil {
			nbs = ResolveAllGrid(snap, t.grid)
		} else {
			nbs = ResolveAll(snap)
		}
		res = ComputeTick(snap, nbs, t.params, t.seed+t.tick)
	}

	pop.Commit(res)
	t.tick++
	return nbs, res
}
