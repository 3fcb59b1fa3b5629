// Package prune implements the property-guided pruner (component I): an optional
// early-termination optimisation that treats states where a supplied property
// formula is already decided as absorbing for exploration purposes.
package prune

import "github.com/gerbs-11/stamina-cplusplus/internal/oracle"

// StatePredicate reports whether a property is definitively decided at s.
// Generalizes GoMC's checking.Predicate[S], which is evaluated per distributed
// node's local state, down to a single predicate over one CompressedState valuation
// (this core has one flat valuation per CTMC state, not one local state per node).
type StatePredicate func(s oracle.CompressedState) bool

// Pruner decides, for a given state, whether exploration should stop there.
type Pruner struct {
	decided StatePredicate
}

// Decided builds a Pruner from a predicate that reports whether the property is
// already decided (true or false, it does not matter which) at a state. Decided
// states have their outgoing behaviour replaced by a self-loop and are not
// expanded further, per spec §4.I.
//
// Pruning does not retroactively remove the pruned state's earlier contribution
// to its predecessors' Pi: only the pruned state's own future outflow is
// replaced, matching STAMINA's reference (StaminaPriorityModelBuilder.cpp marks
// the state terminal and absorbing without touching what predecessors already
// added to it).
func Decided(pred StatePredicate) *Pruner {
	return &Pruner{decided: pred}
}

// None is a Pruner that never decides early; every state is explored normally.
func None() *Pruner {
	return &Pruner{decided: func(oracle.CompressedState) bool { return false }}
}

// IsDecided reports whether s should be treated as absorbing for exploration.
func (p *Pruner) IsDecided(s oracle.CompressedState) bool {
	if p == nil || p.decided == nil {
		return false
	}
	return p.decided(s)
}
