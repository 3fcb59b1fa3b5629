package checking

import (
	"fmt"

	"github.com/gerbs-11/stamina-cplusplus/internal/model"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

// Checker verifies that configured properties hold for a finished model,
// generalizing the teacher's Checker[S] (which walked a simulated
// state.StateSpace[S]) down to the single flat RateMatrix this core produces.
type Checker interface {
	Check(mc *model.ModelComponents) Response
}

// Response is the result of a Check call.
type Response interface {
	// Response reports whether every predicate held, and a human-readable
	// description (matching a failing state, if any).
	Response() (bool, string)
	// FailingState returns the first state that broke a predicate, if any.
	FailingState() (id oracle.StateID, ok bool)
}

type predicateResponse struct {
	ok      bool
	desc    string
	failing oracle.StateID
	has     bool
}

func (r predicateResponse) Response() (bool, string) { return r.ok, r.desc }
func (r predicateResponse) FailingState() (oracle.StateID, bool) {
	return r.failing, r.has
}

// PredicateChecker checks a fixed list of Predicates against every state of a
// finished model, stopping at the first violation. Adapted from the teacher's
// PredicateChecker[S], which did the equivalent depth-first walk over a
// state.StateSpace[S] tree.
type PredicateChecker struct {
	predicates []Predicate
}

// NewPredicateChecker builds a PredicateChecker over predicates, checked in
// order at every state.
func NewPredicateChecker(predicates ...Predicate) *PredicateChecker {
	return &PredicateChecker{predicates: predicates}
}

// Check implements Checker.
func (pc *PredicateChecker) Check(mc *model.ModelComponents) Response {
	views := buildStateViews(mc)
	for _, view := range views {
		for i, pred := range pc.predicates {
			if !pred(view) {
				return predicateResponse{
					ok:      false,
					desc:    fmt.Sprintf("predicate %d failed at state %d", i, view.ID),
					failing: view.ID,
					has:     true,
				}
			}
		}
	}
	return predicateResponse{ok: true, desc: "all predicates hold"}
}

// buildStateViews materializes a StateView per row of mc.Matrix, with labels
// inverted from mc.Labeling and terminality derived from whether a row's only
// outgoing edge is a self-loop.
func buildStateViews(mc *model.ModelComponents) []StateView {
	n := mc.Matrix.NumStates()
	labelsByState := make([][]string, n)
	for _, label := range mc.Labeling.Labels() {
		for _, id := range mc.Labeling.States(label) {
			if int(id) < n {
				labelsByState[id] = append(labelsByState[id], label)
			}
		}
	}

	views := make([]StateView, n)
	for id := 0; id < n; id++ {
		sid := oracle.StateID(id)
		cols, _ := mc.Matrix.Row(sid)
		terminal := len(cols) == 1 && cols[0] == sid
		views[id] = StateView{ID: sid, Labels: labelsByState[id], IsTerminal: terminal}
	}
	return views
}
