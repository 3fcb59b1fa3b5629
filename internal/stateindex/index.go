// Package stateindex implements the bidirectional mapping between compressed
// states and dense integer StateIDs (component A of the truncation explorer).
package stateindex

import (
	"errors"

	"github.com/gerbs-11/stamina-cplusplus/internal/digest"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

// ErrAbsorbingMisplaced is returned by New if the absorbing state it seeds the
// store with would not land at id 0.
var ErrAbsorbingMisplaced = errors.New("stateindex: absorbing state did not take id 0")

// ErrUnexpectedState is returned by TryGet when asked for an id that was never
// assigned by FindOrAdd. Indicates corruption in a caller that is using raw
// StateIDs from outside the FindOrAdd/GetOrInsert path.
var ErrUnexpectedState = errors.New("stateindex: unexpected state id, was never registered")

// bucket holds every state stored under a given digest.Key. Almost always a
// single entry; longer only on a digest collision.
type bucket []oracle.StateID

// Store is a one-to-one mapping CompressedState <-> StateID. Id 0 is always the
// absorbing state (invariant I2), seeded at construction.
type Store struct {
	states  []oracle.CompressedState
	buckets map[digest.Key]bucket
}

// New creates a Store seeded with absorbing as id 0.
func New(absorbing oracle.CompressedState) (*Store, error) {
	s := &Store{
		states:  make([]oracle.CompressedState, 0, 1024),
		buckets: make(map[digest.Key]bucket, 1024),
	}
	id, wasNew := s.FindOrAdd(absorbing)
	if id != oracle.Absorbing || !wasNew {
		return nil, ErrAbsorbingMisplaced
	}
	return s, nil
}

// FindOrAdd returns the id of s, allocating a new one in discovery order if s has
// not been seen before. Amortised O(1).
func (s *Store) FindOrAdd(state oracle.CompressedState) (id oracle.StateID, wasNew bool) {
	key := digest.Sum(state)
	for _, candidate := range s.buckets[key] {
		if s.states[candidate].Equal(state) {
			return candidate, false
		}
	}
	id = oracle.StateID(len(s.states))
	// Store our own copy: the oracle may reuse its buffer across calls.
	s.states = append(s.states, state.Clone())
	s.buckets[key] = append(s.buckets[key], id)
	return id, true
}

// Get returns the CompressedState stored at id. Panics if id was never assigned:
// the explorer only ever calls Get with ids it obtained from FindOrAdd itself, so
// an out-of-range id here is a programming error, not recoverable input.
func (s *Store) Get(id oracle.StateID) oracle.CompressedState {
	return s.states[id]
}

// TryGet is the checked counterpart to Get, for callers handling ids that may
// have come from outside the FindOrAdd/GetOrInsert path (e.g. a remapping vector
// supplied by a caller).
func (s *Store) TryGet(id oracle.StateID) (oracle.CompressedState, error) {
	if int(id) >= len(s.states) {
		return nil, ErrUnexpectedState
	}
	return s.states[id], nil
}

// Len returns the number of states registered so far, including the absorbing
// state.
func (s *Store) Len() int {
	return len(s.states)
}

// Contains reports whether state has already been assigned an id, without
// allocating one.
func (s *Store) Contains(state oracle.CompressedState) (oracle.StateID, bool) {
	key := digest.Sum(state)
	for _, candidate := range s.buckets[key] {
		if s.states[candidate].Equal(state) {
			return candidate, true
		}
	}
	return 0, false
}

// Remap rewrites every stored id through f. Used rarely, for post-exploration id
// compaction (Design Notes: state remapping).
func (s *Store) Remap(f func(oracle.StateID) oracle.StateID) {
	newStates := make([]oracle.CompressedState, len(s.states))
	for oldID, state := range s.states {
		newStates[f(oracle.StateID(oldID))] = state
	}
	s.states = newStates

	newBuckets := make(map[digest.Key]bucket, len(s.buckets))
	for key, ids := range s.buckets {
		remapped := make(bucket, len(ids))
		for i, id := range ids {
			remapped[i] = f(id)
		}
		newBuckets[key] = remapped
	}
	s.buckets = newBuckets
}
