package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
)

func TestPutAndGetRoundTrips(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	state := oracle.CompressedState{1, 2, 3}
	require.NoError(t, s.Put(5, state))

	got, ok, err := s.Get(5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, state.Equal(got))
}

func TestGetMissingIDReturnsNotFound(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutOverwritesExistingID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(1, oracle.CompressedState{1}))
	require.NoError(t, s.Put(1, oracle.CompressedState{9, 9}))

	got, ok, err := s.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, oracle.CompressedState{9, 9}.Equal(got))
}

func TestCountReflectsPuts(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(1, oracle.CompressedState{1}))
	require.NoError(t, s.Put(2, oracle.CompressedState{2}))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
