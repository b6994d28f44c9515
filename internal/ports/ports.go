package ports

import (
	"context"
	"time"

	"svw.info/sudoku-lab/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// StepKind tags a solver progress event.
type StepKind string

const (
	// Emitted by the cultural strategy.
	StepInit      StepKind = "init"
	StepIter      StepKind = "iter"
	StepSwapTry   StepKind = "swap_try"
	StepSwapReset StepKind = "swap_reset"

	// Emitted by the backtracking strategy.
	StepStart     StepKind = "start"
	StepUpdate    StepKind = "update"
	StepBacktrack StepKind = "backtrack"

	// Terminal events, emitted by both strategies.
	StepDone StepKind = "done"
	StepFail StepKind = "fail"
)

// Move is a single-cell assignment reported by the backtracking strategy.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
	Val int `json:"val"`
}

// Swap describes the cells touched by a local-repair attempt.
type Swap struct {
	Row  int `json:"row"`
	Col1 int `json:"col1"`
	Val1 int `json:"val1,omitempty"`
	Col2 int `json:"col2"`
	Val2 int `json:"val2,omitempty"`
}

// Step is one tagged progress event in a solve run. Which payload fields are
// populated depends on Kind; zero-valued fields are not meaningful for kinds
// that do not list them.
type Step struct {
	Kind      StepKind           `json:"kind"`
	Board     domain.Grid        `json:"board,omitempty"`
	Fitness   int                `json:"fitness"`
	Iteration int                `json:"iteration"`
	Conflicts []domain.CellCoord `json:"conflicts,omitempty"`
	Swap      *Swap              `json:"swap,omitempty"`
	Move      *Move              `json:"move,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (s Step) Terminal() bool { return s.Kind == StepDone || s.Kind == StepFail }

// StepStream is a lazy, finite, non-restartable sequence of solver events.
// Next returns the next event, or ok=false once the sequence is exhausted.
// Producing an event may do unbounded (but iteration-bounded) work; the
// stream is single-threaded and owned by one consuming call path.
type StepStream interface {
	Next() (Step, bool)
}

// Strategy produces a step stream for a starting board. Construction
// validates the board and configuration and fails fast on contract
// violations; the returned stream itself cannot fail.
type Strategy interface {
	Steps(b *domain.Board) (StepStream, error)
}

// Solver solves a board and can test uniqueness.
type Solver interface {
	Solve(ctx context.Context, b *domain.Board) (*domain.Board, Stats, error)
	Unique(ctx context.Context, b *domain.Board) (bool, Stats, error)
}

// Generator creates new puzzles of a given size at a target difficulty.
type Generator interface {
	Generate(ctx context.Context, seed int64, size int, difficulty domain.Difficulty) (*domain.Puzzle, Stats, error)
}

// Validator performs fast constraint checks (row/col/block).
type Validator interface {
	Validate(ctx context.Context, b *domain.Board) (ok bool, conflicts []domain.CellCoord, err error)
}

// Hinter returns the next logical step up to a max strategy tier.
type Hinter interface {
	Hint(ctx context.Context, b *domain.Board, max domain.StrategyTier) (domain.Hint, bool, error)
}

// Storage persists and retrieves puzzles as JSON.
type Storage interface {
	Save(ctx context.Context, p *domain.Puzzle) error
	Load(ctx context.Context, id string) (*domain.Puzzle, error)
	List(ctx context.Context) ([]domain.PuzzleMeta, error)
}
