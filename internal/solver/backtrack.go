package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/rules"
)

// BacktrackingSolver is a straightforward depth-first constraint search. It
// serves both as the plain solve/uniqueness oracle used by the generator and
// as a step-streaming strategy for the demonstrator.
type BacktrackingSolver struct{}

func NewBacktrackingSolver() *BacktrackingSolver { return &BacktrackingSolver{} }

func findEmpty(g domain.Grid) (int, int, bool) {
	for r := range g {
		for c := range g[r] {
			if g[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

func (s *BacktrackingSolver) Solve(ctx context.Context, b *domain.Board) (*domain.Board, ports.Stats, error) {
	start := time.Now()
	n := len(b.Values)
	if !rules.Supported(n) {
		return nil, ports.Stats{}, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	grid := rules.Clone(b.Values)
	nodes := 0
	var dfs func() bool
	dfs = func() bool {
		if ctx.Err() != nil {
			return false
		}
		r, c, ok := findEmpty(grid)
		if !ok {
			return true
		}
		for v := 1; v <= n; v++ {
			nodes++
			if rules.ValidAt(grid, r, c, v) {
				grid[r][c] = v
				if dfs() {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	if !dfs() {
		return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, errors.New("unsolvable or canceled")
	}
	out := &domain.Board{Size: n, Values: grid, Fixed: b.Fixed}
	return out, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// Unique counts solutions up to 2 and reports whether exactly one exists.
func (s *BacktrackingSolver) Unique(ctx context.Context, b *domain.Board) (bool, ports.Stats, error) {
	start := time.Now()
	n := len(b.Values)
	if !rules.Supported(n) {
		return false, ports.Stats{}, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	grid := rules.Clone(b.Values)
	nodes := 0
	count := 0

	var dfs func() bool
	dfs = func() bool {
		if ctx.Err() != nil || count >= 2 {
			return true // stop early
		}
		r, c, ok := findEmpty(grid)
		if !ok {
			count++
			return count >= 2
		}
		for v := 1; v <= n; v++ {
			nodes++
			if rules.ValidAt(grid, r, c, v) {
				grid[r][c] = v
				if dfs() {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	_ = dfs()
	return count == 1, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// Steps returns the depth-first search as a step stream: a `start` event,
// one `update` per placement, one `backtrack` per cleared cell, then `done`
// or `fail`. The Iteration field carries the running step count.
func (s *BacktrackingSolver) Steps(b *domain.Board) (ports.StepStream, error) {
	n := len(b.Values)
	if !rules.Supported(n) {
		return nil, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	if _, err := rules.MissingValues(b.Values); err != nil {
		return nil, err
	}
	return &backtrackRun{n: n, grid: rules.Clone(b.Values)}, nil
}

type btFrame struct {
	row, col int
	val      int // last value tried at this cell, 0 before the first try
}

const (
	btDescend = iota // look for the next empty cell
	btAdvance        // try the next value on the top frame
	btUnwind         // clear the top frame after its subtree failed
)

// backtrackRun is the explicit state machine form of the recursive search.
// Every Next call emits exactly one event.
type backtrackRun struct {
	n     int
	grid  domain.Grid
	stack []btFrame
	steps int
	mode  int

	started  bool
	finished bool
}

func (r *backtrackRun) Next() (ports.Step, bool) {
	if r.finished {
		return ports.Step{}, false
	}
	if !r.started {
		r.started = true
		return ports.Step{Kind: ports.StepStart}, true
	}
	for {
		switch r.mode {
		case btDescend:
			row, col, ok := findEmpty(r.grid)
			if !ok {
				r.finished = true
				return ports.Step{
					Kind:      ports.StepDone,
					Board:     rules.Clone(r.grid),
					Iteration: r.steps,
				}, true
			}
			r.stack = append(r.stack, btFrame{row: row, col: col})
			r.mode = btAdvance

		case btAdvance:
			f := &r.stack[len(r.stack)-1]
			placed := 0
			for v := f.val + 1; v <= r.n; v++ {
				if rules.ValidAt(r.grid, f.row, f.col, v) {
					placed = v
					break
				}
			}
			if placed != 0 {
				r.grid[f.row][f.col] = placed
				f.val = placed
				r.steps++
				r.mode = btDescend
				return ports.Step{
					Kind:      ports.StepUpdate,
					Iteration: r.steps,
					Move:      &ports.Move{Row: f.row, Col: f.col, Val: placed},
				}, true
			}
			// Cell exhausted: its subtree failed, hand control back up.
			r.stack = r.stack[:len(r.stack)-1]
			if len(r.stack) == 0 {
				r.finished = true
				return ports.Step{Kind: ports.StepFail, Iteration: r.steps}, true
			}
			r.mode = btUnwind

		case btUnwind:
			f := &r.stack[len(r.stack)-1]
			r.grid[f.row][f.col] = 0
			r.steps++
			r.mode = btAdvance
			return ports.Step{
				Kind:      ports.StepBacktrack,
				Iteration: r.steps,
				Move:      &ports.Move{Row: f.row, Col: f.col, Val: 0},
			}, true
		}
	}
}
