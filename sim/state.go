package sim

import "fmt"

// State is the queueing state of one run: server occupancy and the backlog.
//
// Invariants, checked after every transition:
//   - 0 <= ServersOccupied <= servers
//   - Backlog is non-empty only when ServersOccupied == servers
type State struct {
	ServersOccupied int
	Backlog         Backlog

	// LastQueueDepthUpdate is when the queue-depth integral was last advanced.
	LastQueueDepthUpdate float64
	// LastBusyUpdate is when the busy-server integral was last advanced.
	LastBusyUpdate float64
}

// Machine is the M/D/c queue state machine. It owns the State and the
// Statistics of one run and applies the two transition rules, emitting
// follow-up events into an EventSink.
type Machine struct {
	servers     int
	serviceTime float64
	threshold   float64
	arrivals    ArrivalSampler

	State State
	Stats Statistics
}

// NewMachine creates a Machine for cfg drawing interarrival times from
// arrivals. cfg must already be valid.
func NewMachine(cfg Config, arrivals ArrivalSampler) *Machine {
	return &Machine{
		servers:     cfg.ServerCount,
		serviceTime: cfg.ServiceTime(),
		threshold:   cfg.WaitThreshold,
		arrivals:    arrivals,
	}
}

// NextArrival returns the time of the arrival following one at now.
func (m *Machine) NextArrival(now float64) float64 {
	return now + m.arrivals.SampleIAT()
}

// OnArrival applies the arrival transition at time now: start service on a
// free server, or join the backlog. Either way the next arrival is scheduled.
func (m *Machine) OnArrival(now float64, sink EventSink) {
	m.advanceBusy(now)
	m.Stats.RecordArrival()

	if m.State.ServersOccupied < m.servers {
		if m.State.Backlog.Len() != 0 {
			panic(fmt.Sprintf("OnArrival: %d of %d servers busy with %d jobs waiting", m.State.ServersOccupied, m.servers, m.State.Backlog.Len()))
		}
		m.State.ServersOccupied++
		m.Stats.RecordServiceStart()
		sink.Schedule(NewCompletionEvent(now+m.serviceTime, now, now, false))
	} else {
		m.advanceQueueDepth(now)
		m.Stats.RecordEnqueue(m.State.Backlog.Len())
		m.State.Backlog.Enqueue(now)
	}

	sink.Schedule(NewArrivalEvent(m.NextArrival(now)))
	m.checkInvariants("OnArrival")
}

// OnCompletion applies the completion transition at time now for ev: free
// the server, record the job, and hand the server to the oldest waiting job
// if there is one.
func (m *Machine) OnCompletion(now float64, ev *CompletionEvent, sink EventSink) {
	m.advanceBusy(now)

	m.State.ServersOccupied--
	if m.State.ServersOccupied < 0 {
		panic(fmt.Sprintf("OnCompletion: server occupancy went negative (%d)", m.State.ServersOccupied))
	}
	m.Stats.RecordCompletion(now, ev, m.threshold)

	if m.State.Backlog.Len() > 0 {
		m.advanceQueueDepth(now)
		arrived, _ := m.State.Backlog.Dequeue()
		m.State.ServersOccupied++
		m.Stats.RecordServiceStart()
		sink.Schedule(NewCompletionEvent(now+m.serviceTime, arrived, now, true))
	}

	m.checkInvariants("OnCompletion")
}

// CloseOut advances the busy-server integral to the end of the run.
// The queue-depth integral is only advanced at backlog transitions.
func (m *Machine) CloseOut(horizon float64) {
	if horizon > m.State.LastBusyUpdate {
		m.advanceBusy(horizon)
	}
}

func (m *Machine) advanceQueueDepth(now float64) {
	m.Stats.RecordQueueDepth(now-m.State.LastQueueDepthUpdate, m.State.Backlog.Len())
	m.State.LastQueueDepthUpdate = now
}

func (m *Machine) advanceBusy(now float64) {
	m.Stats.RecordBusy(now-m.State.LastBusyUpdate, m.State.ServersOccupied)
	m.State.LastBusyUpdate = now
}

func (m *Machine) checkInvariants(where string) {
	occ := m.State.ServersOccupied
	if occ < 0 || occ > m.servers {
		panic(fmt.Sprintf("%s: server occupancy %d outside [0, %d]", where, occ, m.servers))
	}
	if m.State.Backlog.Len() > 0 && occ != m.servers {
		panic(fmt.Sprintf("%s: %d jobs waiting while only %d of %d servers busy", where, m.State.Backlog.Len(), occ, m.servers))
	}
}
