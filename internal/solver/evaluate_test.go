package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/rules"
)

var solved4 = domain.Grid{
	{1, 2, 3, 4},
	{3, 4, 1, 2},
	{2, 1, 4, 3},
	{4, 3, 2, 1},
}

func noFixed(n int) [][]bool {
	f := make([][]bool, n)
	for r := range f {
		f[r] = make([]bool, n)
	}
	return f
}

func TestFitnessZeroOnSolvedBoard(t *testing.T) {
	e := newEvaluator(4, noFixed(4))
	assert.Zero(t, e.fitness(solved4))
	assert.Empty(t, e.conflicts(solved4))
}

func TestFitnessCountsEveryDuplicateOccurrence(t *testing.T) {
	g := rules.NewGrid(4)
	g[0][0] = 1
	g[1][0] = 1
	e := newEvaluator(4, noFixed(4))
	// Both placements share a column and a block: each group counts both
	// occurrences of the duplicated value.
	assert.Equal(t, 4, e.fitness(g))

	conf := e.conflicts(g)
	require.Len(t, conf, 2)
	assert.Equal(t, domain.CellCoord{Row: 0, Col: 0}, conf[0])
	assert.Equal(t, domain.CellCoord{Row: 1, Col: 0}, conf[1])
}

func TestConflictsSkipFixedCells(t *testing.T) {
	g := rules.NewGrid(4)
	g[0][0] = 1
	g[1][0] = 1
	fixed := noFixed(4)
	fixed[0][0] = true
	e := newEvaluator(4, fixed)
	conf := e.conflicts(g)
	require.Len(t, conf, 1)
	assert.Equal(t, domain.CellCoord{Row: 1, Col: 0}, conf[0])
}

func TestFitnessDeterministic(t *testing.T) {
	g := rules.Clone(solved4)
	g[2][1], g[2][2] = g[2][2], g[2][1]
	e := newEvaluator(4, noFixed(4))
	f1, f2 := e.fitness(g), e.fitness(g)
	assert.Equal(t, f1, f2)
	assert.Equal(t, e.conflicts(g), e.conflicts(g))
}

func TestZeroFitnessIffNoConflicts(t *testing.T) {
	// Row-complete boards derived from the solved board by in-row swaps:
	// fitness()==0 must coincide exactly with an empty conflict set.
	e := newEvaluator(4, noFixed(4))
	for r := 0; r < 4; r++ {
		for c1 := 0; c1 < 4; c1++ {
			for c2 := c1 + 1; c2 < 4; c2++ {
				g := rules.Clone(solved4)
				g[r][c1], g[r][c2] = g[r][c2], g[r][c1]
				assert.Equal(t, e.fitness(g) == 0, len(e.conflicts(g)) == 0,
					"row %d swap %d<->%d", r, c1, c2)
			}
		}
	}
}
