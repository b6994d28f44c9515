package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/sudoku-lab/internal/domain"
)

func TestBlockDims(t *testing.T) {
	cases := []struct {
		n, h, w int
	}{
		{4, 2, 2},
		{6, 2, 3},
		{9, 3, 3},
	}
	for _, tc := range cases {
		h, w := BlockDims(tc.n)
		assert.Equal(t, tc.h, h, "height for N=%d", tc.n)
		assert.Equal(t, tc.w, w, "width for N=%d", tc.n)
	}
}

func TestCloneNoAliasing(t *testing.T) {
	g := domain.Grid{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{2, 1, 4, 3},
		{4, 3, 2, 1},
	}
	cp := Clone(g)
	cp[0][0] = 9
	cp[3][3] = 9
	assert.Equal(t, 1, g[0][0], "source must not see clone writes")
	assert.Equal(t, 1, g[3][3], "source must not see clone writes")
}

func TestValidAt(t *testing.T) {
	g := NewGrid(6)
	g[0][0] = 5
	g[1][2] = 3 // same 2×3 block as (0,0)..(1,2)

	assert.False(t, ValidAt(g, 0, 3, 5), "duplicate in row")
	assert.False(t, ValidAt(g, 4, 0, 5), "duplicate in column")
	assert.False(t, ValidAt(g, 0, 1, 3), "duplicate in block")
	assert.True(t, ValidAt(g, 0, 3, 3), "3 is free outside its block")
	assert.True(t, ValidAt(g, 0, 0, 0), "zero placement is always valid")
}

func TestMissingValues(t *testing.T) {
	g := domain.Grid{
		{1, 0, 0, 4},
		{0, 0, 0, 0},
		{2, 1, 4, 3},
		{0, 3, 0, 1},
	}
	mm, err := MissingValues(g)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, mm[0])
	assert.Equal(t, []int{1, 2, 3, 4}, mm[1])
	assert.Empty(t, mm[2])
	assert.Equal(t, []int{2, 4}, mm[3])
}

func TestMissingValuesRejectsDuplicateGivens(t *testing.T) {
	g := domain.Grid{
		{1, 1, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	_, err := MissingValues(g)
	require.Error(t, err)
}

func TestMissingValuesRejectsOutOfRange(t *testing.T) {
	g := NewGrid(4)
	g[2][2] = 7
	_, err := MissingValues(g)
	require.Error(t, err)
}
