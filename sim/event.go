package sim

import "github.com/sirupsen/logrus"

// EventKind tags which variant an Event is.
type EventKind int

const (
	// KindArrival is a job entering the system.
	KindArrival EventKind = iota
	// KindCompletion is a job leaving a server.
	KindCompletion
)

// String returns the kind name used in logs and traces.
func (k EventKind) String() string {
	switch k {
	case KindArrival:
		return "arrival"
	case KindCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// EventKindPriority orders events that share a timestamp.
// Lower value dispatches first. Arrivals precede completions at the same
// instant; events of the same kind keep the order they were scheduled in.
var EventKindPriority = map[EventKind]int{
	KindArrival:    0,
	KindCompletion: 1,
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp in simulated time units and an Execute method
// that advances simulation state when invoked. Events are immutable once
// created.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	Execute(*Simulator)
}

// ArrivalEvent is the arrival of a new job. Each arrival schedules its
// successor, so exactly one ArrivalEvent is pending at any time.
type ArrivalEvent struct {
	time float64
}

// NewArrivalEvent creates an arrival at time t.
func NewArrivalEvent(t float64) *ArrivalEvent {
	return &ArrivalEvent{time: t}
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Kind returns KindArrival.
func (e *ArrivalEvent) Kind() EventKind {
	return KindArrival
}

// Execute runs the arrival transition with the simulator's scheduler as sink.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Tracef("<< Arrival at %.6f", e.time)
	sim.Machine.OnArrival(e.time, sim.Scheduler)
}

// CompletionEvent is a job finishing service. It carries the job's arrival
// time and the time its service started, so wait and completion times can
// be attributed to the job when it leaves.
type CompletionEvent struct {
	time float64

	ArrivalTime  float64 // when the job entered the system
	ServiceStart float64 // when a server picked the job up
	FromBacklog  bool    // true if the job waited in the backlog before service
}

// NewCompletionEvent creates a completion at time t for a job that arrived
// at arrival and started service at start.
func NewCompletionEvent(t, arrival, start float64, fromBacklog bool) *CompletionEvent {
	return &CompletionEvent{
		time:         t,
		ArrivalTime:  arrival,
		ServiceStart: start,
		FromBacklog:  fromBacklog,
	}
}

// Timestamp returns the scheduled time of the CompletionEvent.
func (e *CompletionEvent) Timestamp() float64 {
	return e.time
}

// Kind returns KindCompletion.
func (e *CompletionEvent) Kind() EventKind {
	return KindCompletion
}

// Wait is the time the job spent in the backlog.
func (e *CompletionEvent) Wait() float64 {
	return e.ServiceStart - e.ArrivalTime
}

// Execute runs the completion transition with the simulator's scheduler as sink.
func (e *CompletionEvent) Execute(sim *Simulator) {
	logrus.Tracef("<< Completion at %.6f (arrived %.6f, started %.6f)", e.time, e.ArrivalTime, e.ServiceStart)
	sim.Machine.OnCompletion(e.time, e, sim.Scheduler)
}
