package equeue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
)

func push(t *testing.T, q Queue, s *registry.State) {
	t.Helper()
	s.WasEnqueued = true
	q.Push(s)
}

func TestFIFOOrder(t *testing.T) {
	q := New(FIFO)
	a := &registry.State{ID: 1}
	b := &registry.State{ID: 2}
	push(t, q, a)
	push(t, q, b)

	assert.Equal(t, a, q.Pop())
	assert.Equal(t, b, q.Pop())
	assert.True(t, q.Empty())
	assert.Nil(t, q.Pop())
}

func TestFIFOSkipsStaleEntries(t *testing.T) {
	q := New(FIFO)
	a := &registry.State{ID: 1}
	push(t, q, a)
	// Simulate the explorer popping a, expanding it, and re-pushing: the
	// original push is now stale.
	a.WasEnqueued = false
	push(t, q, a)

	assert.Equal(t, a, q.Pop())
	assert.Nil(t, q.Pop())
}

func TestPriorityOrdersByDescendingPi(t *testing.T) {
	q := New(Priority)
	low := &registry.State{ID: 1, Pi: 0.1}
	high := &registry.State{ID: 2, Pi: 0.9}
	mid := &registry.State{ID: 3, Pi: 0.5}
	push(t, q, low)
	push(t, q, high)
	push(t, q, mid)

	assert.Equal(t, high, q.Pop())
	assert.Equal(t, mid, q.Pop())
	assert.Equal(t, low, q.Pop())
}

func TestPriorityTieBreaksByInsertionOrder(t *testing.T) {
	q := New(Priority)
	first := &registry.State{ID: 1, Pi: 0.5}
	second := &registry.State{ID: 2, Pi: 0.5}
	push(t, q, first)
	push(t, q, second)

	assert.Equal(t, first, q.Pop())
	assert.Equal(t, second, q.Pop())
}

func TestPrioritySkipsStaleEntries(t *testing.T) {
	q := New(Priority)
	stale := &registry.State{ID: 1, Pi: 0.9}
	fresh := &registry.State{ID: 2, Pi: 0.2}
	push(t, q, stale)
	// Superseded before being popped: the entry is left in the heap but must
	// be skipped rather than returned.
	stale.WasEnqueued = false
	push(t, q, fresh)

	assert.Equal(t, fresh, q.Pop())
	assert.True(t, q.Empty())
}

func TestPriorityUpdateResiftsAfterPiChange(t *testing.T) {
	q := New(Priority)
	a := &registry.State{ID: 1, Pi: 0.2}
	b := &registry.State{ID: 2, Pi: 0.5}
	push(t, q, a)
	push(t, q, b)

	a.Pi = 0.9
	q.Update(a)

	assert.Equal(t, a, q.Pop())
	assert.Equal(t, b, q.Pop())
}
