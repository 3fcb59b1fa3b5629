package stamina

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/config"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

var twoStateVarInfo = oracle.VariableInfo{TotalBits: 32, AbsorbingBitOffset: 16}

func twoStateAt(n byte) oracle.CompressedState { return oracle.CompressedState{uint64(n)} }

// twoStateOracle is a plain two-state CTMC cycling A <-> B forever, matching
// scenario S1: no truncation should ever be needed since every state is
// immediately re-entered.
type twoStateOracle struct {
	loaded byte
}

func (o *twoStateOracle) InitialStates() ([]oracle.CompressedState, error) {
	return []oracle.CompressedState{twoStateAt('A')}, nil
}

func (o *twoStateOracle) Load(s oracle.CompressedState) error {
	o.loaded = byte(s[0])
	return nil
}

func (o *twoStateOracle) Expand(idCallback oracle.IDCallback) (oracle.StateBehavior, error) {
	var next byte
	if o.loaded == 'A' {
		next = 'B'
	} else {
		next = 'A'
	}
	target := twoStateAt(next)
	idCallback(target)
	return oracle.StateBehavior{{{State: target, Rate: 1}}}, nil
}

func (o *twoStateOracle) ObservabilityClass(oracle.CompressedState) uint32 { return 0 }
func (o *twoStateOracle) Label(oracle.CompressedState) []string           { return nil }
func (o *twoStateOracle) VariableInfo() oracle.VariableInfo                { return twoStateVarInfo }

func TestExplorationRunsToConvergence(t *testing.T) {
	exp, err := New(&twoStateOracle{},
		config.WithKappa0(1e-3),
		config.WithProbabilityWindow(1e-2),
		config.WithMaxIterations(10),
	)
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Model)
	assert.False(t, result.Cancelled)
	assert.True(t, result.Model.IsCTMC)
	assert.GreaterOrEqual(t, result.Model.Matrix.NumStates(), 3) // sink, A, B
}
