// Bounded ring of recent submission outcomes, exposed through
// DebugProbes for inspection by cmd/dtostat and ad-hoc debugging — the
// Go analogue of a ring buffer an operator could attach to and watch
// decide CPU vs. accelerator without waiting for the next Prometheus
// scrape.
package control

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/intel/dto/api"
)

// Event is one completed facade call, stamped with the path that
// serviced it.
type Event struct {
	Op      api.MemOp
	Outcome api.PathOutcome
	Bytes   int
	Latency time.Duration
	At      time.Time
}

// EventRing retains the most recent events up to a fixed capacity,
// discarding the oldest once full. Backed by eapache/queue's ring-style
// FIFO rather than a hand-rolled circular slice.
type EventRing struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
}

// NewEventRing creates a ring holding at most capacity events.
func NewEventRing(capacity int) *EventRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &EventRing{q: queue.New(), capacity: capacity}
}

// Record appends one event, evicting the oldest if the ring is full.
func (r *EventRing) Record(ev Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.q.Add(ev)
	for r.q.Length() > r.capacity {
		r.q.Remove()
	}
}

// Recent returns a snapshot of the ring's contents, oldest first.
func (r *EventRing) Recent() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.q.Length())
	for i := 0; i < r.q.Length(); i++ {
		out = append(out, r.q.Get(i).(Event))
	}
	return out
}
