package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/rules"
)

// removalFrac maps difficulty to the share of cells carved out of the full
// solution.
func removalFrac(d domain.Difficulty) float64 {
	switch d {
	case domain.Easy:
		return 0.45
	case domain.Hard:
		return 0.55
	case domain.Expert:
		return 0.62
	default:
		return 0.5 // Medium
	}
}

// Generate builds a size×size puzzle: a full random solution first, then clue
// carving toward the difficulty target while preserving uniqueness. Carving
// stops early on a 900ms budget so generation stays interactive.
func (g *UniqueGenerator) Generate(ctx context.Context, seed int64, size int, diff domain.Difficulty) (*domain.Puzzle, ports.Stats, error) {
	start := time.Now()
	if !rules.Supported(size) {
		return nil, ports.Stats{}, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", size)
	}
	rng := rand.New(rand.NewSource(seed))

	// 1) full random solution
	full := rules.NewGrid(size)
	if !fillRandom(ctx, rng, full) {
		return nil, ports.Stats{}, context.Canceled
	}

	// 2) carve out clues while preserving uniqueness
	puz := rules.Clone(full)
	total := size * size
	positions := make([]int, total)
	for i := range positions {
		positions[i] = i
	}
	rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })

	target := total - int(float64(total)*removalFrac(diff))
	deadline := start.Add(900 * time.Millisecond)
	nodes := 0

	for _, pos := range positions {
		if time.Now().After(deadline) {
			break
		}
		if countGivens(puz) <= target {
			break
		}
		r, c := pos/size, pos%size
		if puz[r][c] == 0 {
			continue
		}
		old := puz[r][c]
		puz[r][c] = 0
		unique, st, _ := g.Solver.Unique(ctx, &domain.Board{Size: size, Values: puz})
		nodes += st.Nodes
		if !unique {
			puz[r][c] = old
		}
	}

	p := &domain.Puzzle{
		ID:         uuid.NewString(),
		Seed:       seed,
		Size:       size,
		Difficulty: diff,
		Board:      domain.NewBoard(puz),
		CreatedAt:  time.Now().UnixNano(),
	}
	return p, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

func countGivens(g domain.Grid) int {
	n := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// fillRandom solves an empty grid into a full valid solution by random
// candidate ordering.
func fillRandom(ctx context.Context, rng *rand.Rand, grid domain.Grid) bool {
	n := len(grid)
	var dfs func(r, c int) bool
	dfs = func(r, c int) bool {
		if ctx.Err() != nil {
			return false
		}
		if r == n {
			return true
		}
		nr, nc := r, c+1
		if nc == n {
			nr, nc = r+1, 0
		}
		for _, p := range rng.Perm(n) {
			v := p + 1
			if rules.ValidAt(grid, r, c, v) {
				grid[r][c] = v
				if dfs(nr, nc) {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	return dfs(0, 0)
}
