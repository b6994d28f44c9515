package rules

import (
	"fmt"

	"svw.info/sudoku-lab/internal/domain"
)

// Sizes lists the supported grid sizes.
var Sizes = []int{4, 6, 9}

// Supported reports whether n is a playable grid size.
func Supported(n int) bool {
	return n == 4 || n == 6 || n == 9
}

// BlockDims returns the (height, width) of a sub-block for an N×N grid.
// 6×6 boards use 2×3 blocks; the other supported sizes are square.
func BlockDims(n int) (int, int) {
	if n == 6 {
		return 2, 3
	}
	b := 2
	if n == 9 {
		b = 3
	}
	return b, b
}

// NewGrid allocates an empty n×n grid.
func NewGrid(n int) domain.Grid {
	g := make(domain.Grid, n)
	for r := range g {
		g[r] = make([]int, n)
	}
	return g
}

// Clone returns a deep copy of g with no shared row storage.
func Clone(g domain.Grid) domain.Grid {
	out := make(domain.Grid, len(g))
	for r := range g {
		out[r] = make([]int, len(g[r]))
		copy(out[r], g[r])
	}
	return out
}

// ValidAt reports whether placing val at (r, c) keeps the grid conflict-free.
// Placing 0 (clearing a cell) is always allowed.
func ValidAt(g domain.Grid, r, c, val int) bool {
	if val == 0 {
		return true
	}
	n := len(g)
	for i := 0; i < n; i++ {
		if g[r][i] == val || g[i][c] == val {
			return false
		}
	}
	bh, bw := BlockDims(n)
	br, bc := (r/bh)*bh, (c/bw)*bw
	for i := br; i < br+bh; i++ {
		for j := bc; j < bc+bw; j++ {
			if g[i][j] == val {
				return false
			}
		}
	}
	return true
}

// MissingValues returns, for each row, the values in [1, n] absent from that
// row's givens. A row whose givens repeat a value yields fewer missing values
// than empty cells; that is reported as an error since no row-complete
// candidate can be built from it.
func MissingValues(g domain.Grid) ([][]int, error) {
	n := len(g)
	out := make([][]int, n)
	for r := 0; r < n; r++ {
		present := make([]bool, n+1)
		empty := 0
		for c := 0; c < n; c++ {
			v := g[r][c]
			if v == 0 {
				empty++
				continue
			}
			if v < 0 || v > n {
				return nil, fmt.Errorf("row %d: value %d out of range [0,%d]", r, v, n)
			}
			present[v] = true
		}
		missing := make([]int, 0, empty)
		for v := 1; v <= n; v++ {
			if !present[v] {
				missing = append(missing, v)
			}
		}
		if len(missing) != empty {
			return nil, fmt.Errorf("row %d: %d empty cells but %d missing values (duplicate givens)", r, empty, len(missing))
		}
		out[r] = missing
	}
	return out, nil
}
