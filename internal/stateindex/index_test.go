package stateindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(oracle.CompressedState{0})
	require.NoError(t, err)
	return s
}

func TestNewSeedsAbsorbingAtZero(t *testing.T) {
	s := newStore(t)

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Get(oracle.Absorbing).Equal(oracle.CompressedState{0}))
}

func TestFindOrAddAssignsIdsInDiscoveryOrder(t *testing.T) {
	s := newStore(t)

	id1, wasNew1 := s.FindOrAdd(oracle.CompressedState{1})
	assert.Equal(t, oracle.StateID(1), id1)
	assert.True(t, wasNew1)

	id2, wasNew2 := s.FindOrAdd(oracle.CompressedState{2})
	assert.Equal(t, oracle.StateID(2), id2)
	assert.True(t, wasNew2)
}

func TestFindOrAddReturnsExistingIDOnRepeat(t *testing.T) {
	s := newStore(t)

	id1, _ := s.FindOrAdd(oracle.CompressedState{5, 6})
	id2, wasNew := s.FindOrAdd(oracle.CompressedState{5, 6})

	assert.Equal(t, id1, id2)
	assert.False(t, wasNew)
}

func TestFindOrAddClonesInput(t *testing.T) {
	s := newStore(t)

	buf := oracle.CompressedState{1, 1}
	id, _ := s.FindOrAdd(buf)
	buf[0] = 99

	assert.True(t, s.Get(id).Equal(oracle.CompressedState{1, 1}))
}

func TestContainsDoesNotAllocate(t *testing.T) {
	s := newStore(t)

	_, found := s.Contains(oracle.CompressedState{3})
	assert.False(t, found)
	assert.Equal(t, 1, s.Len())

	id, _ := s.FindOrAdd(oracle.CompressedState{3})
	gotID, found := s.Contains(oracle.CompressedState{3})
	assert.True(t, found)
	assert.Equal(t, id, gotID)
}

func TestTryGetReturnsErrorForUnassignedID(t *testing.T) {
	s := newStore(t)

	_, err := s.TryGet(oracle.StateID(42))
	assert.ErrorIs(t, err, ErrUnexpectedState)
}

func TestTryGetReturnsStateForAssignedID(t *testing.T) {
	s := newStore(t)

	id, _ := s.FindOrAdd(oracle.CompressedState{4})
	got, err := s.TryGet(id)
	require.NoError(t, err)
	assert.True(t, got.Equal(oracle.CompressedState{4}))
}

func TestRemapRewritesStatesAndBuckets(t *testing.T) {
	s := newStore(t)
	idA, _ := s.FindOrAdd(oracle.CompressedState{1})
	idB, _ := s.FindOrAdd(oracle.CompressedState{2})

	swap := map[oracle.StateID]oracle.StateID{
		oracle.Absorbing: oracle.Absorbing,
		idA:               idB,
		idB:               idA,
	}
	s.Remap(func(id oracle.StateID) oracle.StateID { return swap[id] })

	assert.True(t, s.Get(idA).Equal(oracle.CompressedState{2}))
	assert.True(t, s.Get(idB).Equal(oracle.CompressedState{1}))

	gotA, found := s.Contains(oracle.CompressedState{1})
	require.True(t, found)
	assert.Equal(t, idB, gotA)
}
