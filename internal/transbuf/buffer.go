// Package transbuf implements the transition buffer (component E): out-of-order
// accumulation of (from, to, rate) edges prior to the sparse-matrix flush.
package transbuf

import (
	"sort"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

// Edge is one accumulated transition.
type Edge struct {
	To   oracle.StateID
	Rate float64
}

// Buffer accumulates edges keyed by their source state, grounded in STAMINA's
// transitionsToAdd vector-of-vectors (StaminaModelBuilder.h/.cpp): insertion order
// within a row is not significant, since Flush sorts and merges each row.
type Buffer struct {
	rows [][]Edge
}

// New creates an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Add records an edge from -> to at the given rate. Out-of-order insertion is
// allowed; rows grow on demand.
func (b *Buffer) Add(from, to oracle.StateID, rate float64) {
	for oracle.StateID(len(b.rows)) <= from {
		b.rows = append(b.rows, nil)
	}
	b.rows[from] = append(b.rows[from], Edge{To: to, Rate: rate})
}

// Row returns the raw, unsorted edges accumulated for from, or nil.
func (b *Buffer) Row(from oracle.StateID) []Edge {
	if int(from) >= len(b.rows) {
		return nil
	}
	return b.rows[from]
}

// NumRows returns one past the highest source state id that has ever been
// touched by Add (rows with no edges at all are still counted if a later row was
// touched, matching the C++ reference's while-loop growth of transitionsToAdd).
func (b *Buffer) NumRows() int {
	return len(b.rows)
}

// Snapshot returns a deep copy of the buffer, so the caller can append
// pass-scoped edges (e.g. the absorbing-state handler's terminal-to-sink
// edges) without mutating the edges the explorer will keep accumulating into
// across later refinement passes.
func (b *Buffer) Snapshot() *Buffer {
	rows := make([][]Edge, len(b.rows))
	for i, edges := range b.rows {
		if edges == nil {
			continue
		}
		rows[i] = append([]Edge(nil), edges...)
	}
	return &Buffer{rows: rows}
}

// Flush sorts each row by destination ascending and merges duplicate
// destinations by summing their rates, returning edges ready for the
// row-major sparse-matrix builder. A row with no edges at all is reported as a
// deadlock self-loop of rate 1, per spec §4.E.
func (b *Buffer) Flush() [][]Edge {
	out := make([][]Edge, len(b.rows))
	for row, edges := range b.rows {
		if len(edges) == 0 {
			out[row] = []Edge{{To: oracle.StateID(row), Rate: 1}}
			continue
		}
		sorted := make([]Edge, len(edges))
		copy(sorted, edges)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].To < sorted[j].To })

		merged := make([]Edge, 0, len(sorted))
		for _, e := range sorted {
			if n := len(merged); n > 0 && merged[n-1].To == e.To {
				merged[n-1].Rate += e.Rate
			} else {
				merged = append(merged, e)
			}
		}
		out[row] = merged
	}
	return out
}
