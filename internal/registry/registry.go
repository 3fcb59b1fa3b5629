// Package registry implements the probability-state registry (component B): a
// dense array indexed by StateID holding the per-state reachability estimate,
// terminal flag, and bookkeeping fields used by the truncating explorer.
package registry

import "github.com/gerbs-11/stamina-cplusplus/internal/oracle"

// State is the per-state record described by spec §3. It is never held by value
// across a call boundary that might grow the registry's backing array; callers
// take a pointer via GetOrInsert/Get and use it immediately.
type State struct {
	ID oracle.StateID
	// Pi is the current estimated reachability probability mass: the cumulative
	// inflow since the last reset of this state's Pi.
	Pi float64
	// Terminal is true iff the state has never been expanded during the current
	// pass, or has been re-added as a perimeter state.
	Terminal bool
	// IterationLastSeen is a slot for a refinement-iteration counter. Nothing
	// in this module sets or reads it, so it stays 0 and does not tell states
	// first seen in the current pass apart from older ones.
	IterationLastSeen uint8
	// WasEnqueued guards against duplicate insertion into the exploration queue.
	WasEnqueued bool
	// IsNew is true until the state has been expanded for the first time ever
	// (across all passes); used by the explorer to decide whether a
	// state's outgoing edges still need to be written to the transition buffer.
	IsNew bool
	// HeapIndex is the record's current slot in a priority-mode queue's backing
	// heap, maintained by container/heap's Swap so that Pi updates on an
	// already-enqueued record can be re-sifted with heap.Fix instead of left
	// stale. Unused (-1) outside priority mode.
	HeapIndex int
}

// Registry is a dense, StateID-indexed array of State records. It grows as new
// ids are registered by the state index store.
type Registry struct {
	states        []*State
	terminalCount int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{states: make([]*State, 0, 1024)}
}

// GetOrInsert returns the record for id, allocating a fresh terminal record with
// Pi=0 if id has not been seen by this registry before.
func (r *Registry) GetOrInsert(id oracle.StateID) *State {
	for oracle.StateID(len(r.states)) <= id {
		r.states = append(r.states, nil)
	}
	if r.states[id] == nil {
		r.states[id] = &State{ID: id, Terminal: true, IsNew: true, HeapIndex: -1}
		r.terminalCount++
	}
	return r.states[id]
}

// Get returns the record for id, or nil if id has never been registered.
func (r *Registry) Get(id oracle.StateID) *State {
	if int(id) >= len(r.states) {
		return nil
	}
	return r.states[id]
}

// Len returns the number of ids this registry has a slot for.
func (r *Registry) Len() int {
	return len(r.states)
}

// TerminalCount returns the number of records currently marked terminal,
// maintained incrementally as states are created and expanded.
func (r *Registry) TerminalCount() int {
	return r.terminalCount
}

// MarkExpanded flips a record from terminal to non-terminal, decrementing the
// terminal count. Idempotent.
func (r *Registry) MarkExpanded(s *State) {
	if s.Terminal {
		s.Terminal = false
		r.terminalCount--
	}
}

// MarkTerminal flips a record back to terminal, incrementing the terminal
// count. Idempotent. The refinement controller does not call it: its re-seeding
// only re-pushes states that are still terminal.
func (r *Registry) MarkTerminal(s *State) {
	if !s.Terminal {
		s.Terminal = true
		r.terminalCount++
	}
}

// ResetPiForInitial sets Pi=1/len(initial) on every initial state and 0 on every
// other registered state. The refinement controller calls it once, at the
// start of pass 0.
func (r *Registry) ResetPiForInitial(initial []oracle.StateID) {
	share := 1.0 / float64(len(initial))
	initialSet := make(map[oracle.StateID]bool, len(initial))
	for _, id := range initial {
		initialSet[id] = true
	}
	for _, s := range r.states {
		if s == nil {
			continue
		}
		if initialSet[s.ID] {
			s.Pi = share
		} else {
			s.Pi = 0
		}
	}
}

// All iterates every registered record in ascending StateID order.
func (r *Registry) All(f func(*State)) {
	for _, s := range r.states {
		if s != nil {
			f(s)
		}
	}
}
