// Package runner is the host-side harness around the flocking core. It owns
// what the core deliberately does not: the loop that repeatedly drives one
// tick, the kinematics integration that actually moves agents, and run
// telemetry. A real host engine (renderer, game loop) would replace this
// package and keep only the core.
package runner

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/flock"
)

// Runner drives a population through consecutive ticks.
type Runner struct {
	params flock.Params
	mode   flock.Mode
	pop    *flock.Population
	sched  *flock.Scheduler
	log    *zap.Logger
	runID  uuid.UUID

	// Mean nearest-neighbor distance per tick, for post-run reporting.
	history []float64
}

// Option configures a Runner.
type Option func(*Runner)

// WithGrid routes scalar-mode neighbor queries through a spatial index sized
// to the avoidance distance.
func WithGrid() Option {
	return func(r *Runner) {
		if r.mode == flock.ModeScalar {
			cell := r.params.AvoidanceDistance
			if cell <= 0 {
				cell = r.params.Boundary / 10
			}
			r.sched.UseGrid(flock.NewGrid(cell))
		}
	}
}

// New validates the parameters, seeds the population and prepares the tick
// scheduler. A zero seed is replaced with a fresh random one so that distinct
// runs diverge unless explicitly pinned.
func New(p flock.Params, mode flock.Mode, log *zap.Logger, opts ...Option) (*Runner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Seed == 0 {
		p.Seed = rand.Uint64()
	}

	rng := rand.New(rand.NewPCG(p.Seed, uint64(p.NumAgents)))
	r := &Runner{
		params: p,
		mode:   mode,
		pop:    flock.NewPopulation(p.NumAgents, p.Boundary, rng),
		sched:  flock.NewScheduler(p, mode),
		log:    log,
		runID:  uuid.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunID identifies this run in logs and exported artifacts.
func (r *Runner) RunID() uuid.UUID { return r.runID }

// Population exposes the live population, e.g. for a host renderer.
func (r *Runner) Population() *flock.Population { return r.pop }

// History returns the recorded mean nearest-neighbor distance per tick.
func (r *Runner) History() []float64 { return r.history }

// Run executes the given number of ticks, integrating positions between
// ticks. Cancellation is only honored on tick boundaries: a started tick
// always commits.
func (r *Runner) Run(ctx context.Context, ticks int) error {
	r.log.Info("run starting",
		zap.String("run_id", r.runID.String()),
		zap.String("mode", r.mode.String()),
		zap.Int("agents", r.params.NumAgents),
		zap.Uint64("seed", r.params.Seed),
		zap.Int("ticks", ticks),
	)

	r.history = make([]float64, 0, ticks)
	lastLog := time.Now()
	ticksSinceLog := 0

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			r.log.Warn("run cancelled",
				zap.String("run_id", r.runID.String()),
				zap.Uint64("completed_ticks", r.sched.Tick()))
			return ctx.Err()
		default:
		}

		nbs, _ := r.sched.Step(r.pop)
		r.pop.Advance(r.params.Dt, r.params.Boundary)
		r.history = append(r.history, meanNeighborDistance(nbs))

		ticksSinceLog++
		if since := time.Since(lastLog); since >= time.Second {
			r.log.Info("tick rate",
				zap.String("run_id", r.runID.String()),
				zap.Float64("ticks_per_sec", float64(ticksSinceLog)/since.Seconds()),
				zap.Uint64("tick", r.sched.Tick()),
				zap.Float64("mean_nn_dist", r.history[len(r.history)-1]),
			)
			lastLog = time.Now()
			ticksSinceLog = 0
		}
	}

	r.log.Info("run finished",
		zap.String("run_id", r.runID.String()),
		zap.Uint64("ticks", r.sched.Tick()),
	)
	return nil
}

// meanNeighborDistance averages the resolved nearest-neighbor distances,
// skipping agents without a neighbor. Zero for a population of one.
func meanNeighborDistance(nbs []flock.Neighbor) float64 {
	dists := make([]float64, 0, len(nbs))
	for _, nb := range nbs {
		if nb.OK {
			dists = append(dists, nb.Dist)
		}
	}
	if len(dists) == 0 {
		return 0
	}
	return stat.Mean(dists, nil)
}
