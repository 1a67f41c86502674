package sim

import (
	"cmp"
	"fmt"

	"github.com/addrummond/heap"
)

// EventSink accepts newly created events. The Scheduler is the production
// sink; transition tests use a recording sink instead.
type EventSink interface {
	Schedule(ev Event)
}

// scheduledEvent pairs an event with its insertion sequence number so that
// ordering is total: timestamp, then kind priority, then sequence.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// Cmp implements the ordering used by the heap.
func (a *scheduledEvent) Cmp(b *scheduledEvent) int {
	if c := cmp.Compare(a.ev.Timestamp(), b.ev.Timestamp()); c != 0 {
		return c
	}
	if c := cmp.Compare(EventKindPriority[a.ev.Kind()], EventKindPriority[b.ev.Kind()]); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Scheduler is a priority queue of pending events ordered by simulated time.
// It owns every live event. Schedule and Next are O(log n).
//
// Thread-safety: NOT thread-safe. Each run owns its own Scheduler.
type Scheduler struct {
	events heap.Heap[scheduledEvent, heap.Min]
	n      int
	seq    uint64
	now    float64 // timestamp of the most recently dispatched event
}

// NewScheduler creates an empty Scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule inserts ev. Scheduling an event earlier than the most recently
// dispatched one is a logic error and panics.
func (s *Scheduler) Schedule(ev Event) {
	if ev == nil {
		panic("Schedule: ev must not be nil")
	}
	if ev.Timestamp() < s.now {
		panic(fmt.Sprintf("Schedule: %s event at %v is before current time %v", ev.Kind(), ev.Timestamp(), s.now))
	}
	heap.PushOrderable(&s.events, scheduledEvent{ev: ev, seq: s.seq})
	s.seq++
	s.n++
}

// Next removes and returns the earliest event, advancing the scheduler's
// clock to its timestamp. Returns nil if no events remain.
func (s *Scheduler) Next() Event {
	se, ok := heap.PopOrderable(&s.events)
	if !ok {
		return nil
	}
	s.n--
	s.now = se.ev.Timestamp()
	return se.ev
}

// Peek returns the earliest event without removing it, or nil.
func (s *Scheduler) Peek() Event {
	se, ok := heap.Peek(&s.events)
	if !ok {
		return nil
	}
	return se.ev
}

// IsEmpty reports whether no events remain.
func (s *Scheduler) IsEmpty() bool {
	return s.n == 0
}

// Len returns the number of live events.
func (s *Scheduler) Len() int {
	return s.n
}

// Now returns the timestamp of the most recently dispatched event.
func (s *Scheduler) Now() float64 {
	return s.now
}
