// Package model implements the sparse-matrix builder (component G): it turns a
// flushed transition buffer into a row-major CSR-shaped rate matrix, alongside
// the state labelling and reward vectors a downstream CTMC checker needs.
//
// No library in the retrieved corpus ships a sparse-matrix type, so this
// package is built directly on the standard library; see DESIGN.md for the
// justification.
package model

import (
	"errors"
	"slices"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/transbuf"
)

// ErrUnsupportedModelType names the error for a non-CTMC model type (only
// CTMCs are supported: spec.md's Non-goals exclude DTMC/MDP/PTA model types).
// Build takes no model-type argument, always builds a CTMC, and does not
// return it.
var ErrUnsupportedModelType = errors.New("model: unsupported model type")

// RateMatrix is a compressed-sparse-row encoding of the (row, column, value)
// triples produced by transbuf.Buffer.Flush, sorted by row then column, as
// required by spec §4.G.
type RateMatrix struct {
	// RowStart has NumStates()+1 entries; row r's columns/rates live in
	// [RowStart[r], RowStart[r+1]).
	RowStart []int
	Columns  []oracle.StateID
	Rates    []float64
}

// NumStates returns the number of rows in the matrix.
func (m *RateMatrix) NumStates() int {
	if len(m.RowStart) == 0 {
		return 0
	}
	return len(m.RowStart) - 1
}

// Row returns the column/rate pairs for state id, as parallel slices sharing
// m's backing arrays.
func (m *RateMatrix) Row(id oracle.StateID) (columns []oracle.StateID, rates []float64) {
	start, end := m.RowStart[id], m.RowStart[id+1]
	return m.Columns[start:end], m.Rates[start:end]
}

// TotalRate returns the sum of outgoing rates for state id (the diagonal's
// negation, in generator-matrix convention; this package stores only the
// off-policy rate matrix, not the generator, so callers needing the generator
// subtract this from a self-loop as needed).
func (m *RateMatrix) TotalRate(id oracle.StateID) float64 {
	cols, rates := m.Row(id)
	_ = cols
	total := 0.0
	for _, r := range rates {
		total += r
	}
	return total
}

// BuildRateMatrix assembles a RateMatrix from a flushed transition buffer
// (already sorted and merged by transbuf.Buffer.Flush).
func BuildRateMatrix(rows [][]transbuf.Edge) *RateMatrix {
	m := &RateMatrix{RowStart: make([]int, len(rows)+1)}
	total := 0
	for _, edges := range rows {
		total += len(edges)
	}
	m.Columns = make([]oracle.StateID, 0, total)
	m.Rates = make([]float64, 0, total)

	for row, edges := range rows {
		m.RowStart[row] = len(m.Columns)
		for _, e := range edges {
			m.Columns = append(m.Columns, e.To)
			m.Rates = append(m.Rates, e.Rate)
		}
	}
	m.RowStart[len(rows)] = len(m.Columns)
	return m
}

// ReplaceColumns rewrites every column index through f in place, used after a
// post-exploration id compaction (stateindex.Store.Remap's matrix-side
// counterpart).
func (m *RateMatrix) ReplaceColumns(f func(oracle.StateID) oracle.StateID) {
	for i, c := range m.Columns {
		m.Columns[i] = f(c)
	}
}

// StateLabeling maps an atomic proposition name to the set of state ids it
// holds in, stored as a sorted slice (spec §4.G: "atomic-proposition to bitset
// of states" — a sorted id slice serves the same membership-and-iteration
// role without committing to a fixed state-count bitset upfront, since the
// number of states is only known once exploration finishes).
type StateLabeling struct {
	labels map[string][]oracle.StateID
}

// NewStateLabeling creates an empty labelling.
func NewStateLabeling() *StateLabeling {
	return &StateLabeling{labels: make(map[string][]oracle.StateID)}
}

// Add records that id holds label.
func (l *StateLabeling) Add(label string, id oracle.StateID) {
	l.labels[label] = append(l.labels[label], id)
}

// States returns the sorted, deduplicated set of ids holding label.
func (l *StateLabeling) States(label string) []oracle.StateID {
	ids := l.labels[label]
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Labels returns every label this labelling has at least one state for.
func (l *StateLabeling) Labels() []string {
	out := make([]string, 0, len(l.labels))
	for label := range l.labels {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// RewardVector is a dense, StateID-indexed reward assignment, used for the
// reward-based properties named in spec §4.G's ModelComponents bundle.
type RewardVector []float64

// Get returns the reward at id, or 0 if the vector is shorter than id.
func (r RewardVector) Get(id oracle.StateID) float64 {
	if int(id) >= len(r) {
		return 0
	}
	return r[id]
}

// ModelComponents bundles everything the sparse-matrix builder produces for a
// single refinement pass: the rate matrix, its state labelling, any reward
// vectors the caller registered, and the CTMC/DTMC flag (spec §4.G; this
// package only ever sets IsCTMC true, since non-CTMC model types are a
// Non-goal, but the flag is carried so a downstream checker does not have to
// assume).
type ModelComponents struct {
	Matrix   *RateMatrix
	Labeling *StateLabeling
	Rewards  map[string]RewardVector
	IsCTMC   bool
}

// Build assembles a ModelComponents from a flushed transition buffer and a
// labelling built by the caller while exploring (e.g. from oracle.Label via
// the refinement controller).
func Build(rows [][]transbuf.Edge, labeling *StateLabeling, rewards map[string]RewardVector) (*ModelComponents, error) {
	if labeling == nil {
		labeling = NewStateLabeling()
	}
	return &ModelComponents{
		Matrix:   BuildRateMatrix(rows),
		Labeling: labeling,
		Rewards:  rewards,
		IsCTMC:   true,
	}, nil
}
