package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, clampIndex(-5, 3))
	assert.Equal(t, 0, clampIndex(0, 3))
	assert.Equal(t, 2, clampIndex(2, 3))
	assert.Equal(t, 3, clampIndex(3, 3))
	assert.Equal(t, 3, clampIndex(99, 3))
	assert.Equal(t, 0, clampIndex(7, 0))
}

func TestInsertAt(t *testing.T) {
	base := []int64{10, 20, 30}

	assert.Equal(t, []int64{5, 10, 20, 30}, insertAt(base, 5, 0))
	assert.Equal(t, []int64{10, 5, 20, 30}, insertAt(base, 5, 1))
	assert.Equal(t, []int64{10, 20, 30, 5}, insertAt(base, 5, 3))
	// out-of-range indexes clamp instead of failing
	assert.Equal(t, []int64{10, 20, 30, 5}, insertAt(base, 5, 100))
	assert.Equal(t, []int64{5, 10, 20, 30}, insertAt(base, 5, -1))
	assert.Equal(t, []int64{7}, insertAt(nil, 7, 0))
}

func TestRemoveID(t *testing.T) {
	assert.Equal(t, []int64{10, 30}, removeID([]int64{10, 20, 30}, 20))
	assert.Equal(t, []int64{10, 20, 30}, removeID([]int64{10, 20, 30}, 99))
	assert.Equal(t, []int64{}, removeID([]int64{10}, 10))
}

func TestMoveWithin(t *testing.T) {
	base := []int64{1, 2, 3, 4}

	// target index is against the sequence with the element removed
	assert.Equal(t, []int64{2, 3, 1, 4}, moveWithin(base, 1, 2))
	assert.Equal(t, []int64{4, 1, 2, 3}, moveWithin(base, 4, 0))
	assert.Equal(t, []int64{1, 2, 3, 4}, moveWithin(base, 2, 1))
	assert.Equal(t, []int64{2, 3, 4, 1}, moveWithin(base, 1, 99))
}

// Moving a card to another list and back restores the source sequence.
func TestMoveAndMoveBack(t *testing.T) {
	src := []int64{1, 2, 3}
	dst := []int64{10, 20}

	moved := removeID(src, 2)
	dst = insertAt(dst, 2, 1)
	assert.Equal(t, []int64{1, 3}, moved)
	assert.Equal(t, []int64{10, 2, 20}, dst)

	dst = removeID(dst, 2)
	back := insertAt(moved, 2, 1)
	assert.Equal(t, []int64{10, 20}, dst)
	assert.Equal(t, []int64{1, 2, 3}, back)
}

func TestMoveWithinIdempotent(t *testing.T) {
	base := []int64{5, 6, 7, 8, 9}
	once := moveWithin(base, 7, 0)
	twice := moveWithin(once, 7, 0)
	assert.Equal(t, once, twice)
}

// After any sequence of edits the surviving positions are exactly 0..n-1:
// persistOrder writes the slice index as the position, so it is enough that
// the helpers never duplicate or drop ids.
func TestOrderStaysDense(t *testing.T) {
	ids := []int64{}
	for i := int64(1); i <= 6; i++ {
		ids = insertAt(ids, i, int(i)%3)
	}
	ids = moveWithin(ids, 4, 5)
	ids = removeID(ids, 2)
	ids = moveWithin(ids, 1, 0)

	require.Len(t, ids, 5)
	seen := map[int64]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "id %d appears twice", id)
		seen[id] = true
	}
	for _, want := range []int64{1, 3, 4, 5, 6} {
		assert.True(t, seen[want], "id %d lost", want)
	}
}
