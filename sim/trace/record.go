// Package trace provides dispatched-event recording for simulation runs.
// This package has no dependencies on sim/; it stores plain data types.
package trace

// EventRecord captures one dispatched event and the queue state right after
// its transition was applied.
type EventRecord struct {
	Seq             int     // dispatch order, starting at 0
	Time            float64 // simulated time of the event
	Kind            string  // "arrival" or "completion"
	ServersOccupied int     // busy servers after the transition
	Backlog         int     // waiting jobs after the transition
}
