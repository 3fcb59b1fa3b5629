package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

func TestGetOrInsertCreatesTerminalNewRecord(t *testing.T) {
	r := New()

	s := r.GetOrInsert(3)

	assert.Equal(t, oracle.StateID(3), s.ID)
	assert.True(t, s.Terminal)
	assert.True(t, s.IsNew)
	assert.Equal(t, 0.0, s.Pi)
	assert.Equal(t, 1, r.TerminalCount())
}

func TestGetOrInsertReturnsSameRecordOnRepeat(t *testing.T) {
	r := New()

	s1 := r.GetOrInsert(2)
	s1.Pi = 0.5
	s2 := r.GetOrInsert(2)

	assert.Same(t, s1, s2)
	assert.Equal(t, 0.5, s2.Pi)
	assert.Equal(t, 1, r.TerminalCount())
}

func TestGetReturnsNilForUnregisteredID(t *testing.T) {
	r := New()
	r.GetOrInsert(0)

	assert.Nil(t, r.Get(5))
}

func TestMarkExpandedDecrementsTerminalCountOnce(t *testing.T) {
	r := New()
	s := r.GetOrInsert(0)

	r.MarkExpanded(s)
	assert.False(t, s.Terminal)
	assert.Equal(t, 0, r.TerminalCount())

	r.MarkExpanded(s)
	assert.Equal(t, 0, r.TerminalCount())
}

func TestMarkTerminalIncrementsTerminalCountOnce(t *testing.T) {
	r := New()
	s := r.GetOrInsert(0)
	r.MarkExpanded(s)

	r.MarkTerminal(s)
	assert.True(t, s.Terminal)
	assert.Equal(t, 1, r.TerminalCount())

	r.MarkTerminal(s)
	assert.Equal(t, 1, r.TerminalCount())
}

func TestResetPiForInitialSplitsMassEvenly(t *testing.T) {
	r := New()
	a := r.GetOrInsert(0)
	b := r.GetOrInsert(1)
	c := r.GetOrInsert(2)
	a.Pi, b.Pi, c.Pi = 0.9, 0.05, 0.05

	r.ResetPiForInitial([]oracle.StateID{0, 1})

	assert.InDelta(t, 0.5, a.Pi, 1e-9)
	assert.InDelta(t, 0.5, b.Pi, 1e-9)
	assert.Equal(t, 0.0, c.Pi)
}

func TestAllVisitsOnlyRegisteredRecords(t *testing.T) {
	r := New()
	r.GetOrInsert(0)
	r.GetOrInsert(4)

	var seen []oracle.StateID
	r.All(func(s *State) { seen = append(seen, s.ID) })

	assert.ElementsMatch(t, []oracle.StateID{0, 4}, seen)
}

func TestLenTracksBackingArraySize(t *testing.T) {
	r := New()
	r.GetOrInsert(6)

	assert.Equal(t, 7, r.Len())
}
