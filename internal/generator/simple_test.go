package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/solver"
)

func TestGenerateAllDifficultiesUnder2s(t *testing.T) {
	s := solver.NewBacktrackingSolver()
	g := NewUniqueGenerator(s)

	cases := []struct {
		name string
		diff domain.Difficulty
	}{
		{"easy", domain.Easy},
		{"medium", domain.Medium},
		{"hard", domain.Hard},
		{"expert", domain.Expert},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			p, st, err := g.Generate(ctx, 12345, 9, tc.diff)
			require.NoError(t, err, "Generate(%s) failed", tc.name)
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, 9, p.Size)

			givens := countGivens(p.Board.Values)
			assert.GreaterOrEqual(t, givens, 17, "too few givens")
			assert.Less(t, givens, 81, "no cell was carved")

			unique, _, err := s.Unique(ctx, &p.Board)
			require.NoError(t, err)
			assert.True(t, unique, "puzzle for %s is not unique (nodes=%d)", tc.name, st.Nodes)
		})
	}
}

func TestGenerateSmallSizes(t *testing.T) {
	s := solver.NewBacktrackingSolver()
	g := NewUniqueGenerator(s)
	ctx := context.Background()

	for _, size := range []int{4, 6} {
		p, _, err := g.Generate(ctx, 99, size, domain.Medium)
		require.NoError(t, err)
		assert.Equal(t, size, p.Size)
		assert.Len(t, p.Board.Values, size)

		// every given is marked fixed and vice versa
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				assert.Equal(t, p.Board.Values[r][c] != 0, p.Board.Fixed[r][c])
			}
		}
		unique, _, err := s.Unique(ctx, &p.Board)
		require.NoError(t, err)
		assert.True(t, unique)
	}
}

func TestGenerateRejectsBadSize(t *testing.T) {
	g := NewUniqueGenerator(solver.NewBacktrackingSolver())
	_, _, err := g.Generate(context.Background(), 1, 5, domain.Medium)
	require.Error(t, err)
}
