package solver

import (
	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/rules"
)

// evaluator scores candidate boards against column and block constraints.
// Row conflicts are structurally impossible for row-complete candidates, so
// rows are never scanned. The fixed mask is shared, never written.
type evaluator struct {
	n      int
	blockH int
	blockW int
	fixed  [][]bool
}

func newEvaluator(n int, fixed [][]bool) evaluator {
	bh, bw := rules.BlockDims(n)
	return evaluator{n: n, blockH: bh, blockW: bw, fixed: fixed}
}

// fitness counts conflicting occurrences over all columns and blocks. Every
// occurrence of a value that appears more than once in a group counts: a
// value placed k>1 times contributes k. Zero iff the board is a valid
// solution. Empty cells are ignored.
func (e evaluator) fitness(g domain.Grid) int {
	conflicts := 0
	counts := make([]int, e.n+1)

	countGroup := func() {
		for v := 1; v <= e.n; v++ {
			if counts[v] > 1 {
				conflicts += counts[v]
			}
			counts[v] = 0
		}
	}

	for c := 0; c < e.n; c++ {
		for r := 0; r < e.n; r++ {
			if v := g[r][c]; v != 0 {
				counts[v]++
			}
		}
		countGroup()
	}
	for br := 0; br < e.n; br += e.blockH {
		for bc := 0; bc < e.n; bc += e.blockW {
			for r := br; r < br+e.blockH; r++ {
				for c := bc; c < bc+e.blockW; c++ {
					if v := g[r][c]; v != 0 {
						counts[v]++
					}
				}
			}
			countGroup()
		}
	}
	return conflicts
}

// conflicts returns the non-fixed cells participating in a duplicate-value
// group within their column or block, in row-major order without duplicates.
// Fixed cells are never reported: they cannot be repaired.
func (e evaluator) conflicts(g domain.Grid) []domain.CellCoord {
	marked := make([][]bool, e.n)
	for r := range marked {
		marked[r] = make([]bool, e.n)
	}
	occ := make([][]domain.CellCoord, e.n+1)

	flagGroup := func() {
		for v := 1; v <= e.n; v++ {
			if len(occ[v]) > 1 {
				for _, cell := range occ[v] {
					if !e.fixed[cell.Row][cell.Col] {
						marked[cell.Row][cell.Col] = true
					}
				}
			}
			occ[v] = occ[v][:0]
		}
	}

	for c := 0; c < e.n; c++ {
		for r := 0; r < e.n; r++ {
			if v := g[r][c]; v != 0 {
				occ[v] = append(occ[v], domain.CellCoord{Row: r, Col: c})
			}
		}
		flagGroup()
	}
	for br := 0; br < e.n; br += e.blockH {
		for bc := 0; bc < e.n; bc += e.blockW {
			for r := br; r < br+e.blockH; r++ {
				for c := bc; c < bc+e.blockW; c++ {
					if v := g[r][c]; v != 0 {
						occ[v] = append(occ[v], domain.CellCoord{Row: r, Col: c})
					}
				}
			}
			flagGroup()
		}
	}

	var out []domain.CellCoord
	for r := 0; r < e.n; r++ {
		for c := 0; c < e.n; c++ {
			if marked[r][c] {
				out = append(out, domain.CellCoord{Row: r, Col: c})
			}
		}
	}
	return out
}
