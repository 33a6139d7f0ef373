package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelCodec(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"bug"},
		{"bug", "p1", "backend"},
		{`weird "quoted" label`, "comma, separated", "emoji 🏷", "trailing space "},
	}
	for _, in := range cases {
		out := decodeStrings([]byte(encodeStrings(in)))
		if len(in) == 0 {
			assert.Empty(t, out)
			continue
		}
		assert.Equal(t, in, out)
	}
}

func TestAssigneeCodec(t *testing.T) {
	assert.Equal(t, "[]", encodeIDs(nil))
	assert.Equal(t, []int64{}, decodeIDs([]byte("[]")))
	assert.Equal(t, []int64{3, 1, 2}, decodeIDs([]byte(encodeIDs([]int64{3, 1, 2}))))
}

func TestPrimaryAssignee(t *testing.T) {
	assert.Nil(t, primaryAssignee(nil))
	assert.Nil(t, primaryAssignee([]int64{}))
	p := primaryAssignee([]int64{9, 4})
	require.NotNil(t, p)
	assert.Equal(t, int64(9), *p)
}

func TestValidationError(t *testing.T) {
	err := validationf("title %s", "required")
	assert.Equal(t, "title required", err.Error())
}
