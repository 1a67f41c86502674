package sim

import (
	"testing"

	"pgregory.net/rapid"
)

func drawConfig(t *rapid.T) Config {
	return Config{
		ArrivalRate:   rapid.Float64Range(0.1, 8).Draw(t, "l"),
		ServiceRate:   rapid.Float64Range(0.2, 4).Draw(t, "u"),
		ServerCount:   rapid.IntRange(1, 6).Draw(t, "c"),
		WaitThreshold: rapid.Float64Range(0, 2).Draw(t, "twait"),
		Horizon:       rapid.Float64Range(0, 80).Draw(t, "horizon"),
		Trace:         true,
	}.WithSeed(rapid.Int64().Draw(t, "seed"))
}

// Every dispatched transition leaves the queue in a legal state, and the
// final tallies account for every arrival.
func TestRunSimulation_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := drawConfig(t)
		r, err := RunSimulation(cfg)
		if err != nil {
			t.Fatalf("RunSimulation: %v", err)
		}

		for _, rec := range r.Trace.Events {
			if rec.ServersOccupied < 0 || rec.ServersOccupied > cfg.ServerCount {
				t.Fatalf("t=%v: occupancy %d outside [0, %d]", rec.Time, rec.ServersOccupied, cfg.ServerCount)
			}
			if rec.Backlog > 0 && rec.ServersOccupied != cfg.ServerCount {
				t.Fatalf("t=%v: backlog %d with %d of %d servers busy", rec.Time, rec.Backlog, rec.ServersOccupied, cfg.ServerCount)
			}
			if rec.Time > cfg.Horizon {
				t.Fatalf("event at %v dispatched past horizon %v", rec.Time, cfg.Horizon)
			}
		}

		s := r.Stats
		if s.Arrivals < s.Completions {
			t.Fatalf("arrivals %d < completions %d", s.Arrivals, s.Completions)
		}
		if got := s.Completions + int64(r.ResidualBacklog) + int64(r.ResidualInService); got != s.Arrivals {
			t.Fatalf("conservation: completions+backlog+in-service = %d, arrivals = %d", got, s.Arrivals)
		}
		if s.ServedImmediately+s.Waited != s.Completions {
			t.Fatalf("served immediately %d + waited %d != completions %d", s.ServedImmediately, s.Waited, s.Completions)
		}
		if s.WaitWithinThreshold+s.WaitOverThreshold != s.Completions {
			t.Fatalf("threshold partition %d + %d != completions %d", s.WaitWithinThreshold, s.WaitOverThreshold, s.Completions)
		}
		if s.ServiceStarts != s.Completions+int64(r.ResidualInService) {
			t.Fatalf("service starts %d != completions %d + in service %d", s.ServiceStarts, s.Completions, r.ResidualInService)
		}
		if s.WaitTimeSum < 0 || s.QueueDepthArea < 0 || s.BusyServerArea < 0 {
			t.Fatalf("negative integral: wait %v depth %v busy %v", s.WaitTimeSum, s.QueueDepthArea, s.BusyServerArea)
		}
		if s.PeakQueueDepth > 0 && s.PeakQueueDepth != s.MaxQueueDepth+1 {
			t.Fatalf("peak %d != max %d + 1", s.PeakQueueDepth, s.MaxQueueDepth)
		}

		sum := r.Summary
		if cfg.Horizon > 0 {
			if sum.AvgQueueDepth < 0 || sum.AvgQueueDepth > float64(s.PeakQueueDepth)+1e-9 {
				t.Fatalf("avg queue depth %v outside [0, %d]", sum.AvgQueueDepth, s.PeakQueueDepth)
			}
			if sum.Utilization < 0 || sum.Utilization > 1+1e-9 {
				t.Fatalf("utilization %v outside [0, 1]", sum.Utilization)
			}
		}
		if !sum.NoCompletions {
			for name, p := range map[string]float64{"zero": sum.PWaitZero, "within": sum.PWaitWithin, "over": sum.PWaitOver} {
				if p < 0 || p > 1 {
					t.Fatalf("P(wait %s) = %v outside [0, 1]", name, p)
				}
			}
			if sum.AvgCompletionTime < cfg.ServiceTime()-1e-9 {
				t.Fatalf("avg completion %v below service time %v", sum.AvgCompletionTime, cfg.ServiceTime())
			}
		}
	})
}

// Replaying the same interarrival draws reproduces the run exactly.
func TestRun_ScriptedDraws_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		draws := rapid.SliceOfN(rapid.Float64Range(0, 2), 1, 40).Draw(t, "draws")
		cfg := Config{
			ArrivalRate:   1,
			ServiceRate:   rapid.Float64Range(0.5, 4).Draw(t, "u"),
			ServerCount:   rapid.IntRange(1, 3).Draw(t, "c"),
			WaitThreshold: 0.25,
			Horizon:       rapid.Float64Range(0, 50).Draw(t, "horizon"),
			Trace:         true,
		}

		run := func() *RunResult {
			s, err := NewSimulator(cfg, NewScriptedSampler(draws...))
			if err != nil {
				t.Fatalf("NewSimulator: %v", err)
			}
			return s.Run()
		}
		a, b := run(), run()

		if a.Stats != b.Stats {
			t.Fatalf("stats differ:\n%+v\n%+v", a.Stats, b.Stats)
		}
		if len(a.Trace.Events) != len(b.Trace.Events) {
			t.Fatalf("trace lengths differ: %d vs %d", len(a.Trace.Events), len(b.Trace.Events))
		}
		for i := range a.Trace.Events {
			if a.Trace.Events[i] != b.Trace.Events[i] {
				t.Fatalf("trace differs at %d: %+v vs %+v", i, a.Trace.Events[i], b.Trace.Events[i])
			}
		}
		if int64(len(draws)) < a.Stats.Arrivals {
			t.Fatalf("%d arrivals from %d draws", a.Stats.Arrivals, len(draws))
		}
	})
}
