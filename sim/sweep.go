package sim

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// SweepRun is one named parameter set inside a sweep.
type SweepRun struct {
	Name   string
	Config Config
}

// RunSweep runs every entry of runs as an independent simulation, at most
// parallel at a time. Each run builds its own Scheduler, Machine and
// Statistics; nothing is shared between runs.
//
// Runs without an explicit seed get one derived from masterSeed and the
// run's name, so the whole sweep is reproducible from masterSeed. Results
// are returned in input order. Every config is validated before any run
// starts.
func RunSweep(runs []SweepRun, masterSeed int64, parallel int) ([]*RunResult, error) {
	if parallel < 1 {
		parallel = 1
	}
	seeds := NewPartitionedRNG(NewSimulationKey(masterSeed))
	cfgs := make([]Config, len(runs))
	for i, r := range runs {
		if err := r.Config.Validate(); err != nil {
			return nil, fmt.Errorf("sweep run %q: %w", runName(r, i), err)
		}
		cfgs[i] = r.Config
		if cfgs[i].Seed == nil {
			cfgs[i] = cfgs[i].WithSeed(seeds.SeedFor(SubsystemRun(runName(r, i))))
		}
	}

	results := make([]*RunResult, len(runs))
	errs := make([]error, len(runs))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			logrus.Debugf("sweep: starting run %q", runName(runs[i], i))
			results[i], errs[i] = RunSimulation(cfgs[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sweep run %q: %w", runName(runs[i], i), err)
		}
	}
	return results, nil
}

// runName returns r.Name, or the run's index when it has none.
func runName(r SweepRun, i int) string {
	if r.Name != "" {
		return r.Name
	}
	return strconv.Itoa(i)
}
