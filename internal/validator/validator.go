package validator

import (
	"context"
	"fmt"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/rules"
)

// FastValidator flags duplicate placements in rows, columns and blocks with
// one bitmask pass per group. Empty cells never conflict.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

func (v *FastValidator) Validate(ctx context.Context, b *domain.Board) (bool, []domain.CellCoord, error) {
	n := len(b.Values)
	if !rules.Supported(n) {
		return false, nil, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	conf := make([]domain.CellCoord, 0, 8)
	// rows
	for r := 0; r < n; r++ {
		m := 0
		for c := 0; c < n; c++ {
			val := b.Values[r][c]
			if val == 0 {
				continue
			}
			bit := 1 << val
			if m&bit != 0 {
				conf = append(conf, domain.CellCoord{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// cols
	for c := 0; c < n; c++ {
		m := 0
		for r := 0; r < n; r++ {
			val := b.Values[r][c]
			if val == 0 {
				continue
			}
			bit := 1 << val
			if m&bit != 0 {
				conf = append(conf, domain.CellCoord{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// blocks
	bh, bw := rules.BlockDims(n)
	for br := 0; br < n; br += bh {
		for bc := 0; bc < n; bc += bw {
			m := 0
			for r := br; r < br+bh; r++ {
				for c := bc; c < bc+bw; c++ {
					val := b.Values[r][c]
					if val == 0 {
						continue
					}
					bit := 1 << val
					if m&bit != 0 {
						conf = append(conf, domain.CellCoord{Row: r, Col: c})
					}
					m |= bit
				}
			}
		}
	}
	return len(conf) == 0, conf, nil
}
