// Tracks the running tallies of a simulation run and derives the
// steady-state estimates from them once the run ends.

package sim

import "math"

// Statistics accumulates counts and sums at the transition points of the
// queue state machine. It is owned by a single run and mutated only by that
// run's Machine.
//
// Per-job tallies (wait, completion time, served immediately, threshold
// partition) are recorded when the job completes, so every ratio derived in
// Finalize divides a completion-population numerator by the completion count.
type Statistics struct {
	Arrivals      int64 // jobs that entered the system
	Completions   int64 // jobs that left a server
	ServiceStarts int64 // jobs a server picked up (immediately or from the backlog)

	ServedImmediately int64 // completed jobs that never waited in the backlog
	Waited            int64 // completed jobs that were taken from the backlog

	QueueDepthArea float64 // integral of backlog length over time
	MaxQueueDepth  int     // max backlog length seen by an arriving job before it joined
	PeakQueueDepth int     // max backlog length reached

	WaitTimeSum       float64 // sum of (service start - arrival) over completed jobs
	CompletionTimeSum float64 // sum of (completion - arrival) over completed jobs

	WaitWithinThreshold int64 // completed jobs with wait <= threshold
	WaitOverThreshold   int64 // completed jobs with wait > threshold

	BusyServerArea float64 // integral of occupied servers over time
}

// RecordArrival counts a job entering the system.
func (s *Statistics) RecordArrival() {
	s.Arrivals++
}

// RecordServiceStart counts a job being picked up by a server.
func (s *Statistics) RecordServiceStart() {
	s.ServiceStarts++
}

// RecordQueueDepth adds dt time units at the given backlog length to the
// queue-depth integral.
func (s *Statistics) RecordQueueDepth(dt float64, depth int) {
	s.QueueDepthArea += dt * float64(depth)
}

// RecordEnqueue updates the depth maxima for a job joining a backlog that
// held depthBefore jobs.
func (s *Statistics) RecordEnqueue(depthBefore int) {
	s.MaxQueueDepth = max(s.MaxQueueDepth, depthBefore)
	s.PeakQueueDepth = max(s.PeakQueueDepth, depthBefore+1)
}

// RecordBusy adds dt time units at the given server occupancy to the
// busy-server integral.
func (s *Statistics) RecordBusy(dt float64, occupied int) {
	s.BusyServerArea += dt * float64(occupied)
}

// RecordCompletion attributes a finished job's tallies at time now.
// threshold is the wait time boundary; a wait equal to it counts as within.
func (s *Statistics) RecordCompletion(now float64, ev *CompletionEvent, threshold float64) {
	s.Completions++
	s.CompletionTimeSum += now - ev.ArrivalTime

	wait := ev.Wait()
	s.WaitTimeSum += wait
	if ev.FromBacklog {
		s.Waited++
	} else {
		s.ServedImmediately++
	}
	if wait > threshold {
		s.WaitOverThreshold++
	} else {
		s.WaitWithinThreshold++
	}
}

// Summary holds the derived estimates of a finished run.
// Values that cannot be computed are NaN and flagged.
type Summary struct {
	AvgWaitTime       float64 // mean wait per completed job
	AvgCompletionTime float64 // mean time in system per completed job
	AvgQueueDepth     float64 // time-weighted mean backlog length
	Utilization       float64 // time-weighted fraction of server capacity in use

	PWaitZero   float64 // fraction of completed jobs served immediately
	PWaitWithin float64 // fraction of completed jobs with wait <= threshold
	PWaitOver   float64 // fraction of completed jobs with wait > threshold

	NoCompletions       bool // no job completed; per-job averages and probabilities are NaN
	QueueDepthUndefined bool // horizon <= 0; AvgQueueDepth and Utilization are NaN
}

// Finalize derives the run estimates for a run of length horizon on servers
// servers. It does not modify s.
func (s *Statistics) Finalize(horizon float64, servers int) Summary {
	var sum Summary

	if s.Completions == 0 {
		sum.NoCompletions = true
		sum.AvgWaitTime = math.NaN()
		sum.AvgCompletionTime = math.NaN()
		sum.PWaitZero = math.NaN()
		sum.PWaitWithin = math.NaN()
		sum.PWaitOver = math.NaN()
	} else {
		n := float64(s.Completions)
		sum.AvgWaitTime = s.WaitTimeSum / n
		sum.AvgCompletionTime = s.CompletionTimeSum / n
		sum.PWaitZero = float64(s.ServedImmediately) / n
		sum.PWaitWithin = float64(s.WaitWithinThreshold) / n
		sum.PWaitOver = float64(s.WaitOverThreshold) / n
	}

	if horizon <= 0 {
		sum.QueueDepthUndefined = true
		sum.AvgQueueDepth = math.NaN()
		sum.Utilization = math.NaN()
	} else {
		sum.AvgQueueDepth = s.QueueDepthArea / horizon
		sum.Utilization = s.BusyServerArea / (float64(servers) * horizon)
	}

	return sum
}
