package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/rules"
	"svw.info/sudoku-lab/internal/validator"
)

// A classic, solvable Sudoku (0 = empty).
var sample = domain.Grid{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

func TestBacktrackingSolveUnder1s(t *testing.T) {
	in := domain.NewBoard(rules.Clone(sample))
	s := NewBacktrackingSolver()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, st, err := s.Solve(ctx, &in)
	require.NoError(t, err, "nodes=%d dur=%v", st.Nodes, st.Duration)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			assert.NotZero(t, out.Values[r][c], "unsolved cell at r=%d c=%d", r, c)
		}
	}
	ok, conf, err := validator.New().Validate(ctx, out)
	require.NoError(t, err)
	assert.True(t, ok, "invalid solution: conflicts=%v", conf)
	t.Logf("Solved in %v, nodes=%d", st.Duration, st.Nodes)
}

func TestBacktrackingUnique(t *testing.T) {
	ctx := context.Background()
	s := NewBacktrackingSolver()

	b := domain.NewBoard(rules.Clone(sample))
	unique, _, err := s.Unique(ctx, &b)
	require.NoError(t, err)
	assert.True(t, unique, "the classic sample has exactly one solution")

	empty := domain.NewBoard(rules.NewGrid(4))
	unique, _, err = s.Unique(ctx, &empty)
	require.NoError(t, err)
	assert.False(t, unique, "an empty grid has many solutions")
}

func TestBacktrackingStepsReplay(t *testing.T) {
	puzzle := rules.Clone(solved4)
	puzzle[0][1] = 0
	puzzle[2][2] = 0
	puzzle[3][0] = 0

	stream, err := NewBacktrackingSolver().Steps(&domain.Board{Values: puzzle})
	require.NoError(t, err)

	steps := drain(t, stream, 1_000_000)
	require.GreaterOrEqual(t, len(steps), 2)
	assert.Equal(t, ports.StepStart, steps[0].Kind)

	// Replaying every update/backtrack onto the puzzle must reproduce the
	// final board carried by done.
	replay := rules.Clone(puzzle)
	count := 0
	for _, st := range steps[1:] {
		switch st.Kind {
		case ports.StepUpdate, ports.StepBacktrack:
			count++
			assert.Equal(t, count, st.Iteration, "step counter increments by one")
			replay[st.Move.Row][st.Move.Col] = st.Move.Val
		}
	}
	last := steps[len(steps)-1]
	require.Equal(t, ports.StepDone, last.Kind)
	assert.Equal(t, solved4, last.Board)
	assert.Equal(t, last.Board, replay)
}

func TestBacktrackingStepsFailOnUnsolvable(t *testing.T) {
	puzzle := rules.NewGrid(4)
	puzzle[0][0] = 1
	puzzle[1][0] = 1 // same column, no solution

	stream, err := NewBacktrackingSolver().Steps(&domain.Board{Values: puzzle})
	require.NoError(t, err)

	steps := drain(t, stream, 10_000_000)
	last := steps[len(steps)-1]
	assert.Equal(t, ports.StepFail, last.Kind)
}
