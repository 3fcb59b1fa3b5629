package equeue

import (
	"container/heap"

	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
)

// priorityQueue is a max-heap on Pi. A true decrease-key is not offered by
// container/heap's Push/Pop alone, so every *registry.State tracks its own
// slot via HeapIndex (the classic container/heap priority-queue pattern); a
// Pi update on a record already resident in the heap must go through Update,
// which calls heap.Fix to re-sift it, rather than mutating the live record's
// key and leaving the heap's backing array in an invalid order.
type priorityQueue struct {
	items stateHeap
}

func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{}
	heap.Init(&pq.items)
	return pq
}

func (q *priorityQueue) Push(s *registry.State) {
	heap.Push(&q.items, s)
}

func (q *priorityQueue) Pop() *registry.State {
	for q.items.Len() > 0 {
		s := heap.Pop(&q.items).(*registry.State)
		if !s.WasEnqueued {
			// Stale entry: this state was already popped (and possibly
			// re-pushed with a different Pi) since this entry was queued.
			continue
		}
		return s
	}
	return nil
}

// Update re-establishes the heap invariant for s after its Pi has changed in
// place. A no-op if s is not currently resident in the heap.
func (q *priorityQueue) Update(s *registry.State) {
	if s.HeapIndex < 0 {
		return
	}
	heap.Fix(&q.items, s.HeapIndex)
}

func (q *priorityQueue) Empty() bool {
	return q.items.Len() == 0
}

func (q *priorityQueue) Len() int {
	return q.items.Len()
}

// stateHeap implements heap.Interface over *registry.State, ordered by
// descending Pi so the highest-mass state is expanded first. Equal-Pi ties break
// by insertion order (seq), per spec §5's ordering guarantee for priority mode.
type stateHeap struct {
	entries []*registry.State
	seq     []uint64
	next    uint64
}

func (h stateHeap) Len() int { return len(h.entries) }

func (h stateHeap) Less(i, j int) bool {
	if h.entries[i].Pi != h.entries[j].Pi {
		return h.entries[i].Pi > h.entries[j].Pi
	}
	return h.seq[i] < h.seq[j]
}

func (h stateHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.seq[i], h.seq[j] = h.seq[j], h.seq[i]
	h.entries[i].HeapIndex = i
	h.entries[j].HeapIndex = j
}

func (h *stateHeap) Push(x any) {
	s := x.(*registry.State)
	s.HeapIndex = len(h.entries)
	h.entries = append(h.entries, s)
	h.seq = append(h.seq, h.next)
	h.next++
}

func (h *stateHeap) Pop() any {
	n := len(h.entries)
	s := h.entries[n-1]
	h.entries = h.entries[:n-1]
	h.seq = h.seq[:n-1]
	s.HeapIndex = -1
	return s
}
