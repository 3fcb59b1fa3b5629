package explorer

import (
	"context"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
	"github.com/gerbs-11/stamina-cplusplus/internal/stateindex"
	"github.com/gerbs-11/stamina-cplusplus/internal/transbuf"
)

// BuildAbsorbingState constructs the distinguished valuation used to seed id 0 in
// the state index store: every bit zero except the oracle's "Absorbing" boolean,
// grounded in STAMINA's setUpAbsorbingState (StaminaModelBuilder.cpp), which sets
// exactly one bit of a freshly zeroed CompressedState.
func BuildAbsorbingState(info oracle.VariableInfo) oracle.CompressedState {
	words := (info.TotalBits + 63) / 64
	if words == 0 {
		words = 1
	}
	cs := make(oracle.CompressedState, words)
	cs[info.AbsorbingBitOffset/64] |= 1 << uint(info.AbsorbingBitOffset%64)
	return cs
}

// CloseSink adds the self-loop that keeps the absorbing state stochastically
// closed (spec §4.F: "Always add (0, 0, 1)").
func CloseSink(buf *transbuf.Buffer) {
	buf.Add(oracle.Absorbing, oracle.Absorbing, 1.0)
}

// ConnectTerminalsDefault implements the reference residual-rate variant named
// in spec §4.F: every terminal state with positive Pi that the oracle was never
// consulted on receives a configured default rate of 1 to the sink.
func ConnectTerminalsDefault(reg *registry.Registry, buf *transbuf.Buffer) {
	reg.All(func(s *registry.State) {
		if s.ID == oracle.Absorbing {
			return
		}
		if s.Terminal && s.Pi > 0 {
			buf.Add(s.ID, oracle.Absorbing, 1.0)
		}
	})
	CloseSink(buf)
}

// ConnectTerminalsPerimeter implements the perimeter re-expansion variant: each
// terminal state is re-loaded and re-expanded through the oracle using a
// callback that maps any not-yet-known successor to the sink, splitting exactly
// between edges to already-discovered states and the residual rate to the sink.
// Grounded in STAMINA's connectTerminalStatesToAbsorbing.
func ConnectTerminalsPerimeter(ctx context.Context, o oracle.NextStateGenerator, index *stateindex.Store, reg *registry.Registry, buf *transbuf.Buffer) error {
	var terminalIDs []oracle.StateID
	reg.All(func(s *registry.State) {
		if s.ID != oracle.Absorbing && s.Terminal {
			terminalIDs = append(terminalIDs, s.ID)
		}
	})

	for _, id := range terminalIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		state := index.Get(id)
		if err := o.Load(state); err != nil {
			return err
		}
		toAbsorbing := func(succ oracle.CompressedState) oracle.StateID {
			if existing, ok := index.Contains(succ); ok {
				return existing
			}
			return oracle.Absorbing
		}
		behavior, err := o.Expand(toAbsorbing)
		if err != nil {
			return err
		}
		if behavior.Empty() {
			buf.Add(id, id, 1.0)
			continue
		}
		if len(behavior) > 1 {
			return ErrNonDeterministicChoice
		}

		var residual float64
		for _, succ := range behavior[0] {
			dest := toAbsorbing(succ.State)
			if dest == oracle.Absorbing {
				residual += succ.Rate
			} else {
				buf.Add(id, dest, succ.Rate)
			}
		}
		if residual > 0 {
			buf.Add(id, oracle.Absorbing, residual)
		}
	}

	CloseSink(buf)
	return nil
}
