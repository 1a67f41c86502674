// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/mdc-sim/sim/trace"
)

// RunResult is the finalized, read-only outcome of one run.
type RunResult struct {
	RunID   string // unique per run
	Seed    int64  // seed of the arrival process
	Config  Config
	Stats   Statistics
	Summary Summary

	// Residual state at the horizon cutoff. These are sanity signals and
	// not part of the steady-state estimates.
	ResidualBacklog   int // jobs still waiting
	ResidualInService int // servers still busy
	ResidualEvents    int // events still pending in the scheduler

	Elapsed time.Duration // wall-clock duration of the event loop

	Trace *trace.SimulationTrace // nil unless Config.Trace
}

// Simulator is the core object that holds simulation time, the scheduler,
// the queue state machine, and the event loop.
type Simulator struct {
	Clock   float64
	Horizon float64
	// Scheduler has all pending events: one arrival plus a completion per busy server
	Scheduler *Scheduler
	Machine   *Machine
	Trace     *trace.SimulationTrace

	cfg  Config
	seed int64
	ran  bool
}

// NewSimulator creates a Simulator for cfg drawing interarrival times from
// arrivals. It fails fast on an invalid cfg.
func NewSimulator(cfg Config, arrivals ArrivalSampler) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if arrivals == nil {
		return nil, fmt.Errorf("NewSimulator: arrival sampler must not be nil")
	}
	s := &Simulator{
		Clock:     0,
		Horizon:   cfg.Horizon,
		Scheduler: NewScheduler(),
		Machine:   NewMachine(cfg, arrivals),
		cfg:       cfg,
	}
	if cfg.Seed != nil {
		s.seed = *cfg.Seed
	}
	if cfg.Trace {
		s.Trace = trace.NewSimulationTrace(trace.TraceLevelEvents)
	}
	return s, nil
}

// Run dispatches events in time order until the next event lies beyond the
// horizon. That event, and any others still pending, are discarded: jobs in
// service at the horizon are never counted as completed.
// Run may be called once per Simulator.
func (sim *Simulator) Run() *RunResult {
	if sim.ran {
		panic("Run: simulator has already run")
	}
	sim.ran = true

	logrus.Infof("Starting simulation: l=%v u=%v c=%d twait=%v horizon=%v",
		sim.cfg.ArrivalRate, sim.cfg.ServiceRate, sim.cfg.ServerCount, sim.cfg.WaitThreshold, sim.Horizon)

	start := time.Now()
	sim.Scheduler.Schedule(NewArrivalEvent(sim.Machine.NextArrival(0)))

	dispatched := 0
	for {
		ev := sim.Scheduler.Next()
		if ev == nil {
			break
		}
		if ev.Timestamp() > sim.Horizon {
			break
		}
		// advance the clock
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
		dispatched++
		if sim.Trace.Enabled() {
			sim.Trace.RecordEvent(trace.EventRecord{
				Time:            sim.Clock,
				Kind:            ev.Kind().String(),
				ServersOccupied: sim.Machine.State.ServersOccupied,
				Backlog:         sim.Machine.State.Backlog.Len(),
			})
		}
	}
	sim.Machine.CloseOut(sim.Horizon)
	elapsed := time.Since(start)

	m := sim.Machine
	res := &RunResult{
		RunID:             xid.New().String(),
		Seed:              sim.seed,
		Config:            sim.cfg,
		Stats:             m.Stats,
		Summary:           m.Stats.Finalize(sim.Horizon, sim.cfg.ServerCount),
		ResidualBacklog:   m.State.Backlog.Len(),
		ResidualInService: m.State.ServersOccupied,
		ResidualEvents:    sim.Scheduler.Len(),
		Elapsed:           elapsed,
		Trace:             sim.Trace,
	}
	if res.Summary.NoCompletions {
		logrus.Warnf("Run %s: no completions by horizon %v; per-job averages are undefined", res.RunID, sim.Horizon)
	}
	logrus.Infof("Simulation ended at %.6f after %d events (%d arrivals, %d completions) in %v",
		sim.Clock, dispatched, m.Stats.Arrivals, m.Stats.Completions, elapsed)
	return res
}

// RunSimulation validates cfg, builds a Poisson arrival process seeded from
// cfg.Seed (or the wall clock), and runs one simulation.
func RunSimulation(cfg Config) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := resolveSeed(cfg.Seed)
	cfg = cfg.WithSeed(seed)

	rng := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemArrivals)
	arrivals, err := NewExpSampler(cfg.ArrivalRate, rng)
	if err != nil {
		return nil, err
	}
	s, err := NewSimulator(cfg, arrivals)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}
