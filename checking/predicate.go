// Package checking implements predicate-based verification over a finished
// CTMC, generalized from the teacher's per-node checking.Predicate down to a
// single flat state view: this core has one CompressedState valuation per
// CTMC state rather than one local state per distributed node.
package checking

import "github.com/gerbs-11/stamina-cplusplus/internal/oracle"

// StateView is what a Predicate sees for one state of the finished model: its
// id, the atomic propositions it is labelled with, and whether it is terminal
// (its only outgoing edge is a self-loop, i.e. a deadlock, a pruned state, or
// the absorbing sink).
type StateView struct {
	ID         oracle.StateID
	Labels     []string
	IsTerminal bool
}

// HasLabel reports whether label is among s.Labels.
func (s StateView) HasLabel(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Predicate reports whether a property holds at s. Returning false fails the
// check at s.
type Predicate func(s StateView) bool

// Eventually builds a Predicate that only evaluates pred at terminal states,
// returning true everywhere else. Adapted from the teacher's checking.Eventually,
// which ran the wrapped predicate only on terminal states of a simulated run;
// here "terminal" means a state of the finished CTMC whose only outgoing edge
// is a self-loop rather than the end of one simulation trace.
func Eventually(pred Predicate) Predicate {
	return func(s StateView) bool {
		if !s.IsTerminal {
			return true
		}
		return pred(s)
	}
}

// Always builds a Predicate that evaluates pred at every state, terminal or
// not. This is the identity wrapper, provided for symmetry with Eventually so
// callers can name their intent explicitly.
func Always(pred Predicate) Predicate {
	return pred
}

// Not negates pred.
func Not(pred Predicate) Predicate {
	return func(s StateView) bool { return !pred(s) }
}

// Labelled builds a Predicate that holds at every state carrying label.
func Labelled(label string) Predicate {
	return func(s StateView) bool { return s.HasLabel(label) }
}
