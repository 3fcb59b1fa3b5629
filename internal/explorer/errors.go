package explorer

import "errors"

// ErrOracleEmpty would signal that Expand returned no choices for a state the
// oracle itself considers non-deadlocked. This Go NextStateGenerator contract has
// no separate "is this a real deadlock" signal distinct from an empty
// StateBehavior, so every empty StateBehavior is treated as a genuine deadlock
// per spec §4.D rather than raising this error; it is kept as a sentinel a
// generator implementation can return explicitly from Expand (as a Go error,
// surfaced verbatim per the propagation policy) if it wants to distinguish the
// two cases itself.
var ErrOracleEmpty = errors.New("explorer: oracle reported no behaviour for a non-deadlocked state")

// ErrAbsorbingMisplaced mirrors stateindex.ErrAbsorbingMisplaced for callers that
// only import this package.
var ErrAbsorbingMisplaced = errors.New("explorer: absorbing state did not take id 0")

// ErrNoInitialStates names boundary case B3 (the oracle reports no initial
// states at all). Nothing in this package returns it: the explorer never asks
// the oracle for initial states, and refine.Controller.Run reports the case as
// refine.ErrNoInitialStates.
var ErrNoInitialStates = errors.New("explorer: oracle reported no initial states")

// ErrNonDeterministicChoice is returned when the oracle returns more than one
// choice for a state. spec.md's StateBehavior format allows a set of choices for
// the general (MDP-shaped) case, but every CTMC scenario in spec.md §8 is
// single-choice; a second choice is therefore a generator-contract violation
// worth surfacing (STAMINA's own reference builder raises the same error:
// "Model was not deterministic!" in StaminaPriorityModelBuilder.cpp).
var ErrNonDeterministicChoice = errors.New("explorer: oracle returned more than one choice for a CTMC state")
