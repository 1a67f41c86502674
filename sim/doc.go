// Package sim provides the discrete-event simulation engine for an M/D/c
// queue: Poisson arrivals, deterministic service time, c parallel servers
// and a FIFO backlog.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the two event kinds (Arrival, Completion) and their tie-break priority
//   - scheduler.go: the time-ordered event queue
//   - state.go: the queue state machine and its two transition rules
//   - metrics.go: running tallies and the finalization into estimates
//   - simulator.go: the event loop and the RunSimulation entry point
//
// # Ordering
//
// Events are dispatched by timestamp. Simultaneous events dispatch arrivals
// before completions, then in the order they were scheduled.
//
// # Randomness
//
// The arrival process draws from an explicit ArrivalSampler. RunSimulation
// seeds it from Config.Seed, or from the wall clock when no seed is given.
// ScriptedSampler replays fixed draws for exact, reproducible runs.
//
// Sub-packages:
//   - sim/analytic/: closed-form M/D/1, M/M/c and approximate M/D/c references
//   - sim/trace/: dispatched-event recording
//   - sim/report/: text, CSV and JSON rendering of RunResult
package sim
