// Implements the Backlog, which holds jobs that arrived while every server
// was busy. Jobs are held as their arrival timestamps, oldest first.

package sim

import (
	"fmt"
	"strings"

	"github.com/gammazero/deque"
)

// Backlog is the FIFO waiting line of arrived-but-unserved jobs.
// The zero value is an empty backlog ready to use.
type Backlog struct {
	queue deque.Deque[float64] // arrival timestamps, oldest at the front
}

// Enqueue adds a job that arrived at t to the back of the backlog.
func (b *Backlog) Enqueue(t float64) {
	b.queue.PushBack(t)
}

// Dequeue removes the oldest job and returns its arrival time.
// The second result is false if the backlog is empty.
func (b *Backlog) Dequeue() (float64, bool) {
	if b.queue.Len() == 0 {
		return 0, false
	}
	return b.queue.PopFront(), true
}

// Peek returns the arrival time of the oldest job without removing it.
// The second result is false if the backlog is empty.
func (b *Backlog) Peek() (float64, bool) {
	if b.queue.Len() == 0 {
		return 0, false
	}
	return b.queue.Front(), true
}

// Len returns the number of waiting jobs.
func (b *Backlog) Len() int {
	return b.queue.Len()
}

func (b *Backlog) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < b.queue.Len(); i++ {
		sb.WriteString(fmt.Sprint(b.queue.At(i)))
		if i < b.queue.Len()-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
