package event

import "sync"

// Queue is the one-way channel between a run and its consumer. Push never
// blocks, events keep their emission order, and nothing is dropped or
// coalesced; the consumer drains at its own cadence.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func NewQueue() *Queue { return &Queue{} }

// Push appends e to the pending events. Pushing to a closed queue is a no-op.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.events = append(q.events, e)
}

// Drain returns all pending events in order and clears them. An empty result
// is a normal, non-terminal condition.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	evs := q.events
	q.events = nil
	return evs
}

// Close marks the producer side finished. Queued events stay drainable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Done reports whether the queue is closed and fully drained.
func (q *Queue) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.events) == 0
}
