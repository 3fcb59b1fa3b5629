// Package explorer implements the truncating explorer (component D): the
// central algorithm that decides, for each popped state, whether to expand it
// through the oracle or truncate it, updates reachability estimates on outgoing
// edges, and records them in the transition buffer.
package explorer

import (
	"context"
	"log"

	"github.com/gerbs-11/stamina-cplusplus/internal/equeue"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/prune"
	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
	"github.com/gerbs-11/stamina-cplusplus/internal/stateindex"
	"github.com/gerbs-11/stamina-cplusplus/internal/store"
	"github.com/gerbs-11/stamina-cplusplus/internal/transbuf"
)

// piEpsilon bounds the acceptable floating-point drift above 1 before a Pi value
// is clamped and logged, per spec's PiOutOfRange error kind.
const piEpsilon = 1e-9

// piWarnLimit caps how many PiOutOfRange warnings a single Explorer logs before
// it goes silent for the rest of the pass: an explorer can create tens of
// millions of records (§5), and a warning per record would itself become the
// performance problem it is trying to report.
const piWarnLimit = 20

// Explorer drives one refinement pass over the state space.
type Explorer struct {
	Oracle oracle.NextStateGenerator
	Index  *stateindex.Store
	Reg    *registry.Registry
	Queue  equeue.Queue
	Buf    *transbuf.Buffer
	Pruner *prune.Pruner
	Logger *log.Logger

	Kappa float64

	// ProgressEvery, if non-zero, makes Run log a progress message every
	// ProgressEvery expansions, the Go-native counterpart to STAMINA's
	// MSG_FREQUENCY/isShowProgressSet throttling. 0 disables it.
	ProgressEvery int

	// Spill, if non-nil, persists every newly discovered state to disk as it
	// is assigned an id, the opt-in sqlite-backed spillover for models whose
	// state count would otherwise exceed memory (spec §5). nil means no
	// spillover: the in-memory stateindex.Store stays the only copy.
	Spill *store.Store

	piWarnCount int
	expandCount int
}

// New builds an Explorer over the given collaborators. kappa is the truncation
// threshold: a still-terminal state whose Pi is below it is not expanded, so
// kappa 0 disables truncation.
func New(o oracle.NextStateGenerator, index *stateindex.Store, reg *registry.Registry, queue equeue.Queue, buf *transbuf.Buffer, pruner *prune.Pruner, kappa float64) *Explorer {
	if pruner == nil {
		pruner = prune.None()
	}
	return &Explorer{
		Oracle: o,
		Index:  index,
		Reg:    reg,
		Queue:  queue,
		Buf:    buf,
		Pruner: pruner,
		Logger: log.Default(),
		Kappa:  kappa,
	}
}

// Run drains the exploration queue, expanding or truncating each popped state,
// until the queue is empty or ctx is cancelled. Cancellation is observed between
// pops, per spec §5's suspension-point guarantee (only the oracle call itself may
// take unbounded time; there is no other await point in the hot loop).
func (e *Explorer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s := e.Queue.Pop()
		if s == nil {
			return nil
		}
		s.WasEnqueued = false

		if err := e.expand(s); err != nil {
			return err
		}

		e.expandCount++
		if e.ProgressEvery > 0 && e.expandCount%e.ProgressEvery == 0 {
			e.Logger.Printf("explorer: expanded %d states, %d queued, kappa %v",
				e.expandCount, e.Queue.Len(), e.Kappa)
		}
	}
}

// expand realises the expansion step of spec §4.D on a single popped state.
func (e *Explorer) expand(s *registry.State) error {
	current := e.Index.Get(s.ID)

	if e.Pruner.IsDecided(current) {
		if s.IsNew {
			e.Buf.Add(s.ID, s.ID, 1.0)
			s.IsNew = false
		}
		e.Reg.MarkExpanded(s)
		s.Pi = 0
		return nil
	}

	if s.Terminal && s.Pi < e.Kappa {
		// Truncate: do not ask the oracle, do not emit outgoing edges. The
		// state stays terminal and contributes its Pi to the sink at flush.
		return nil
	}

	e.Reg.MarkExpanded(s)

	if err := e.Oracle.Load(current); err != nil {
		return err
	}

	idCallback := func(succ oracle.CompressedState) oracle.StateID {
		id, wasNew := e.Index.FindOrAdd(succ)
		e.Reg.GetOrInsert(id)
		if wasNew && e.Spill != nil {
			if err := e.Spill.Put(id, succ); err != nil {
				e.Logger.Printf("explorer: spilling state %d to disk: %v", id, err)
			}
		}
		return id
	}

	behavior, err := e.Oracle.Expand(idCallback)
	if err != nil {
		return err
	}

	if behavior.Empty() {
		// Deadlock: emit a self-loop and mark it non-terminal (already done
		// above by MarkExpanded).
		if s.IsNew {
			e.Buf.Add(s.ID, s.ID, 1.0)
			s.IsNew = false
		}
		s.Pi = 0
		return nil
	}
	if len(behavior) > 1 {
		return ErrNonDeterministicChoice
	}

	choice := behavior[0]
	totalRate := 0.0
	for _, succ := range choice {
		totalRate += succ.Rate
	}

	firstTime := s.IsNew
	for _, succ := range choice {
		id, wasNew := e.Index.FindOrAdd(succ.State)
		successor := e.Reg.GetOrInsert(id)

		normalisedRate := succ.Rate / totalRate
		successor.Pi += s.Pi * normalisedRate
		e.clampPi(successor)

		if id != oracle.Absorbing {
			switch {
			case successor.WasEnqueued:
				// Already resident in the queue: its key just changed, so
				// let the queue re-sift it rather than leaving it stale.
				e.Queue.Update(successor)
			case wasNew || successor.Terminal:
				successor.WasEnqueued = true
				e.Queue.Push(successor)
			}
		}

		if firstTime {
			e.Buf.Add(s.ID, id, succ.Rate)
		}
	}
	s.IsNew = false
	s.Pi = 0
	return nil
}

// clampPi enforces invariant I1, logging a rate-limited warning on drift outside
// [0, 1+epsilon] and clamping back into range (spec's PiOutOfRange: recoverable,
// logged, not fatal).
func (e *Explorer) clampPi(s *registry.State) {
	if s.Pi >= 0 && s.Pi <= 1+piEpsilon {
		return
	}
	if e.piWarnCount < piWarnLimit {
		e.piWarnCount++
		e.Logger.Printf("explorer: pi out of range for state %d: %v, clamping", s.ID, s.Pi)
	}
	if s.Pi < 0 {
		s.Pi = 0
	} else if s.Pi > 1 {
		s.Pi = 1
	}
}
