package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/transbuf"
)

func TestBuildRateMatrixLayout(t *testing.T) {
	rows := [][]transbuf.Edge{
		{{To: 0, Rate: 1}},
		{{To: 0, Rate: 2}, {To: 2, Rate: 3}},
		{{To: 2, Rate: 1}},
	}
	m := BuildRateMatrix(rows)
	require.Equal(t, 3, m.NumStates())

	cols, rates := m.Row(1)
	assert.Equal(t, []oracle.StateID{0, 2}, cols)
	assert.Equal(t, []float64{2, 3}, rates)
	assert.Equal(t, 5.0, m.TotalRate(1))

	cols, rates = m.Row(2)
	assert.Equal(t, []oracle.StateID{2}, cols)
	assert.Equal(t, []float64{1}, rates)
}

func TestReplaceColumnsRewritesInPlace(t *testing.T) {
	rows := [][]transbuf.Edge{{{To: 1, Rate: 1}}}
	m := BuildRateMatrix(rows)
	m.ReplaceColumns(func(id oracle.StateID) oracle.StateID { return id + 10 })
	cols, _ := m.Row(0)
	assert.Equal(t, []oracle.StateID{11}, cols)
}

func TestStateLabelingSortsAndDeduplicates(t *testing.T) {
	l := NewStateLabeling()
	l.Add("goal", 5)
	l.Add("goal", 1)
	l.Add("goal", 5)
	assert.Equal(t, []oracle.StateID{1, 5}, l.States("goal"))
	assert.Empty(t, l.States("unknown"))
}

func TestRewardVectorGetOutOfRange(t *testing.T) {
	r := RewardVector{1, 2, 3}
	assert.Equal(t, 2.0, r.Get(1))
	assert.Equal(t, 0.0, r.Get(10))
}

func TestBuildProducesCTMCFlag(t *testing.T) {
	rows := [][]transbuf.Edge{{{To: 0, Rate: 1}}}
	mc, err := Build(rows, nil, nil)
	require.NoError(t, err)
	assert.True(t, mc.IsCTMC)
	assert.NotNil(t, mc.Labeling)
	assert.Equal(t, 1, mc.Matrix.NumStates())
}
