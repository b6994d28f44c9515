package hint

import (
	"context"
	"fmt"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/rules"
)

// Singles implements a minimal Hinter that suggests naked singles.
type Singles struct{}

func NewSingles() *Singles { return &Singles{} }

// Hint returns the first found naked single if max tier allows it.
func (h *Singles) Hint(ctx context.Context, b *domain.Board, max domain.StrategyTier) (domain.Hint, bool, error) {
	if max < domain.StrategySingles {
		return domain.Hint{}, false, nil
	}
	n := len(b.Values)
	if !rules.Supported(n) {
		return domain.Hint{}, false, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if b.Values[r][c] != 0 {
				continue
			}
			v, ok := soleCandidate(b.Values, r, c)
			if ok {
				return domain.Hint{
					Message:  fmt.Sprintf("Single: only %d fits here", v),
					Cells:    []domain.CellCoord{{Row: r, Col: c}},
					Value:    v,
					Strategy: domain.StrategySingles,
				}, true, nil
			}
		}
	}
	return domain.Hint{}, false, nil
}

func soleCandidate(g domain.Grid, r, c int) (int, bool) {
	last, count := 0, 0
	for v := 1; v <= len(g); v++ {
		if rules.ValidAt(g, r, c, v) {
			count++
			last = v
			if count > 1 {
				return 0, false
			}
		}
	}
	return last, count == 1
}
