// Package equeue implements the exploration queue (component C): the ordered
// work list of states awaiting expansion. Two disciplines are offered, selected
// once at construction as spec'd in Design Notes (a sum type, not runtime
// polymorphism chosen per call): FIFO (breadth-first, the default) and a
// priority queue keyed on descending reachability mass (STAMINA-priority mode).
package equeue

import "github.com/gerbs-11/stamina-cplusplus/internal/registry"

// Queue is the interface the truncating explorer drives the work list through.
type Queue interface {
	// Push enqueues a state's record. The caller is responsible for setting
	// WasEnqueued=true beforehand, per the enqueue policy in spec §4.D.
	Push(s *registry.State)
	// Update notifies the queue that a state already resident in it (WasEnqueued
	// is still true) has had its Pi changed in place, so any ordering the queue
	// maintains over Pi can be restored. A no-op for disciplines that do not
	// order by Pi.
	Update(s *registry.State)
	// Pop removes and returns the next state to expand. Returns nil if the
	// queue is empty.
	Pop() *registry.State
	// Empty reports whether the queue has no more live entries.
	Empty() bool
	// Len returns the number of live entries (not counting stale ones already
	// known to be skippable).
	Len() int
}

// Mode selects which Queue implementation New builds.
type Mode int

const (
	// FIFO explores states in discovery order (breadth-first). Default.
	FIFO Mode = iota
	// Priority explores the highest-pi state first (STAMINA-priority mode).
	Priority
)

// New builds a Queue of the requested discipline.
func New(mode Mode) Queue {
	switch mode {
	case Priority:
		return newPriorityQueue()
	default:
		return newFIFOQueue()
	}
}
