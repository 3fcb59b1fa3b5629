package equeue

import "github.com/gerbs-11/stamina-cplusplus/internal/registry"

// fifoQueue is a slice-backed breadth-first work list, adapted from GoMC's
// scheduler.QueueScheduler: pop from the front, push at the back. Pop clears
// WasEnqueued on the record it returns and skips entries whose WasEnqueued flag
// is clear, so a second entry for a record that was already popped is dropped.
type fifoQueue struct {
	pending []*registry.State
	head    int
}

func newFIFOQueue() *fifoQueue {
	return &fifoQueue{pending: make([]*registry.State, 0, 1024)}
}

func (q *fifoQueue) Push(s *registry.State) {
	q.pending = append(q.pending, s)
}

// Update is a no-op: discovery order never depends on Pi.
func (q *fifoQueue) Update(*registry.State) {}

func (q *fifoQueue) Pop() *registry.State {
	for q.head < len(q.pending) {
		s := q.pending[q.head]
		q.head++
		if !s.WasEnqueued {
			// Stale: this record has already been popped, or its flag
			// was cleared, since this entry was queued.
			continue
		}
		s.WasEnqueued = false
		q.compact()
		return s
	}
	return nil
}

func (q *fifoQueue) Empty() bool {
	return q.Len() == 0
}

func (q *fifoQueue) Len() int {
	return len(q.pending) - q.head
}

// compact reclaims the consumed prefix once it grows large, so a long-running
// pass does not hold onto an ever-growing backing array.
func (q *fifoQueue) compact() {
	if q.head > 0 && q.head == len(q.pending) {
		q.pending = q.pending[:0]
		q.head = 0
	} else if q.head > 4096 {
		q.pending = append(q.pending[:0], q.pending[q.head:]...)
		q.head = 0
	}
}
