// Package oracle defines the contract between the truncation explorer and the
// external next-state generator. The generator itself is not part of this module:
// it is an oracle the explorer calls, typically backed by a symbolic compiler for
// a guarded-command modelling language (e.g. a PRISM-style program).
package oracle

import "fmt"

// StateID is a dense 32-bit integer assigned to a CompressedState in discovery
// order. Id 0 is reserved for the synthetic absorbing state and is never reassigned.
type StateID uint32

// Absorbing is the reserved id of the synthetic sink state.
const Absorbing StateID = 0

// CompressedState is an opaque word-packed bit-vector encoding of a full variable
// valuation. Equality and hashing are structural: two vectors of different length
// are never equal, and Clone must be used before mutating a vector obtained from
// the oracle, since the oracle may reuse its internal buffer across calls.
type CompressedState []uint64

// Equal reports whether two compressed states encode the same valuation.
func (s CompressedState) Equal(other CompressedState) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s CompressedState) Clone() CompressedState {
	out := make(CompressedState, len(s))
	copy(out, s)
	return out
}

func (s CompressedState) String() string {
	return fmt.Sprintf("%x", []uint64(s))
}

// Successor is one outgoing edge produced by the oracle: a successor state and the
// rate of the exponential transition delay leading to it. Rate must be > 0.
type Successor struct {
	State CompressedState
	Rate  float64
}

// Choice is a non-empty list of successors. CTMC programs produced by a
// deterministic guarded-command model generate exactly one choice per state;
// StateBehavior nonetheless allows several, since the generator contract is shared
// with models that are not purely CTMC (see ErrNonDeterministicChoice in explorer).
type Choice []Successor

// StateBehavior is the non-empty set of choices the oracle returns for a state.
type StateBehavior []Choice

// Empty reports whether the oracle produced no choices at all, i.e. the state is
// a deadlock.
func (b StateBehavior) Empty() bool {
	return len(b) == 0
}

// TotalRate returns the sum of all successor rates across all choices.
func (b StateBehavior) TotalRate() float64 {
	var total float64
	for _, choice := range b {
		for _, succ := range choice {
			total += succ.Rate
		}
	}
	return total
}

// IDCallback is supplied by the explorer to the oracle so the oracle can request
// dense ids for the successors it discovers while expanding a state. It is a
// closure over the explorer's state index store and registry; no thread hop occurs
// across the call.
type IDCallback func(CompressedState) StateID

// VariableInfo exposes the bit offsets of the program's variables, notably the
// boolean "Absorbing" flag used to construct the sink CompressedState.
type VariableInfo struct {
	TotalBits int
	// AbsorbingBitOffset is the bit offset of the distinguished "Absorbing"
	// boolean variable within a CompressedState.
	AbsorbingBitOffset int
}

// NextStateGenerator is the oracle contract consumed by the explorer. It is
// implemented by the symbolic compiler for the modelling language; this module
// never implements it itself except for tests and examples.
type NextStateGenerator interface {
	// InitialStates returns the program's initial valuations.
	InitialStates() ([]CompressedState, error)
	// Load prepares the generator for subsequent calls on s.
	Load(s CompressedState) error
	// Expand returns the outgoing behaviour of the currently loaded state. The
	// callback is used to resolve/allocate ids for any successor encountered.
	Expand(idCallback IDCallback) (StateBehavior, error)
	// ObservabilityClass classifies a state for partially-observable models.
	// Implementations that do not support partial observability may return 0.
	ObservabilityClass(s CompressedState) uint32
	// Label returns the atomic propositions satisfied by s.
	Label(s CompressedState) []string
	// VariableInfo exposes bit offsets needed to build the absorbing state.
	VariableInfo() VariableInfo
}
