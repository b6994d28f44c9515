package solver

import (
	"math"
	"math/rand"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/rules"
)

// beliefSpace holds the cultural knowledge shared by a solve run.
//
// Situational knowledge is the best board seen so far (a one-way ratchet on
// fitness). Normative knowledge is a conflict heat map over cells, rebuilt
// from scratch out of the current elite set on every update — it reflects
// only the present generation, not history.
type beliefSpace struct {
	n   int
	rng *rand.Rand

	bestBoard domain.Grid
	bestFit   int

	conflictMatrix [][]int
	rowScores      []int
}

func newBeliefSpace(n int, rng *rand.Rand) *beliefSpace {
	m := make([][]int, n)
	for r := range m {
		m[r] = make([]int, n)
	}
	return &beliefSpace{
		n:              n,
		rng:            rng,
		bestFit:        math.MaxInt,
		conflictMatrix: m,
		rowScores:      make([]int, n),
	}
}

// update incorporates knowledge from the current elites. The best elite
// (first on ties) ratchets the global best; the conflict matrix and row
// scores are fully reset and rebuilt from the elites' conflicted cells.
func (b *beliefSpace) update(elites []individual, conflicts func(domain.Grid) []domain.CellCoord) {
	best := &elites[0]
	for i := 1; i < len(elites); i++ {
		if elites[i].fit < best.fit {
			best = &elites[i]
		}
	}
	if best.fit < b.bestFit {
		b.bestBoard = rules.Clone(best.board)
		b.bestFit = best.fit
	}

	for r := 0; r < b.n; r++ {
		for c := 0; c < b.n; c++ {
			b.conflictMatrix[r][c] = 0
		}
		b.rowScores[r] = 0
	}
	for i := range elites {
		for _, cell := range conflicts(elites[i].board) {
			b.conflictMatrix[cell.Row][cell.Col]++
			b.rowScores[cell.Row]++
		}
	}
}

// targetRow picks a row to mutate, weighted by its conflict score
// (roulette-wheel). With no recorded conflicts it falls back to a uniformly
// random row for pure exploration.
func (b *beliefSpace) targetRow() int {
	total := 0
	for _, s := range b.rowScores {
		total += s
	}
	if total == 0 {
		return b.rng.Intn(b.n)
	}
	pick := b.rng.Float64() * float64(total)
	running := 0
	for r := 0; r < b.n; r++ {
		running += b.rowScores[r]
		if float64(running) > pick {
			return r
		}
	}
	return b.rng.Intn(b.n)
}
