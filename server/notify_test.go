package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffAssignees(t *testing.T) {
	added, removed := diffAssignees([]int64{5}, []int64{6})
	assert.Equal(t, []int64{6}, added)
	assert.Equal(t, []int64{5}, removed)

	added, removed = diffAssignees(nil, []int64{1, 2})
	assert.Equal(t, []int64{1, 2}, added)
	assert.Empty(t, removed)

	added, removed = diffAssignees([]int64{1, 2}, nil)
	assert.Empty(t, added)
	assert.Equal(t, []int64{1, 2}, removed)

	added, removed = diffAssignees([]int64{1, 2, 3}, []int64{3, 2, 1})
	assert.Empty(t, added)
	assert.Empty(t, removed)

	// duplicates in either set collapse
	added, removed = diffAssignees([]int64{1, 1, 2}, []int64{2, 3, 3})
	assert.Equal(t, []int64{3}, added)
	assert.Equal(t, []int64{1}, removed)
}

func TestAssignmentNotices(t *testing.T) {
	ns := assignmentNotices("Ship it", 7, 42, []int64{1, 2}, []int64{3})
	require.Len(t, ns, 3)

	assert.Equal(t, int64(1), ns[0].UserID)
	assert.Equal(t, NoticeCardAssigned, ns[0].Type)
	assert.Contains(t, ns[0].Message, "Ship it")
	require.NotNil(t, ns[0].BoardID)
	require.NotNil(t, ns[0].CardID)
	assert.Equal(t, int64(7), *ns[0].BoardID)
	assert.Equal(t, int64(42), *ns[0].CardID)

	assert.Equal(t, int64(2), ns[1].UserID)
	assert.Equal(t, NoticeCardAssigned, ns[1].Type)

	// removed users come after the newly assigned
	assert.Equal(t, int64(3), ns[2].UserID)
	assert.Equal(t, NoticeCardUpdated, ns[2].Type)
}

func TestAssignmentNoticesEmpty(t *testing.T) {
	assert.Empty(t, assignmentNotices("x", 1, 2, nil, nil))
}
