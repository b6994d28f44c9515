package solver

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/rules"
)

// CulturalConfig tunes the population-based solver. Zero fields take the
// documented defaults.
type CulturalConfig struct {
	PopSize      int     // population size, default 100
	EliteFrac    float64 // fraction kept as elites, default 0.1
	MaxIters     int     // generation budget, default 2000
	MutationRate float64 // per-child mutation probability, default 0.4
	Seed         int64   // rng seed; 0 seeds from the clock
}

const (
	defaultPopSize      = 100
	defaultEliteFrac    = 0.1
	defaultMaxIters     = 2000
	defaultMutationRate = 0.4
)

func (c CulturalConfig) withDefaults() CulturalConfig {
	if c.PopSize == 0 {
		c.PopSize = defaultPopSize
	}
	if c.EliteFrac == 0 {
		c.EliteFrac = defaultEliteFrac
	}
	if c.MaxIters == 0 {
		c.MaxIters = defaultMaxIters
	}
	if c.MutationRate == 0 {
		c.MutationRate = defaultMutationRate
	}
	return c
}

// CulturalSolver evolves row-complete candidate boards under the guidance of
// a belief space. It implements ports.Strategy.
type CulturalSolver struct {
	cfg CulturalConfig
}

func NewCulturalSolver(cfg CulturalConfig) *CulturalSolver {
	return &CulturalSolver{cfg: cfg.withDefaults()}
}

// NewDefaultCultural returns the production wiring for an n×n board:
// population 150 and an iteration budget of 2000 for 9×9, 1000 otherwise.
func NewDefaultCultural(n int) *CulturalSolver {
	iters := 2000
	if n <= 6 {
		iters = 1000
	}
	return NewCulturalSolver(CulturalConfig{PopSize: 150, MaxIters: iters})
}

// individual is one owned candidate slot: a row-complete board plus its
// cached fitness, always updated together.
type individual struct {
	board domain.Grid
	fit   int
}

// culturalRun is the per-solve state machine behind the step stream. Each
// Next pops a pending event; when none are pending it advances the engine by
// one generation, which queues that generation's events.
type culturalRun struct {
	cfg      CulturalConfig
	n        int
	rng      *rand.Rand
	eval     evaluator
	fixed    [][]bool
	missing  [][]int
	belief   *beliefSpace
	numElite int

	pop       []individual
	bestBoard domain.Grid
	bestFit   int
	iter      int

	queue    []ports.Step
	finished bool
}

// Steps validates the board and configuration and builds the initial
// population. Contract violations (unsupported size, duplicated givens in a
// row, a board with nothing to solve, a population smaller than the elite
// count) are reported here, before any iteration runs.
func (s *CulturalSolver) Steps(b *domain.Board) (ports.StepStream, error) {
	n := len(b.Values)
	if !rules.Supported(n) {
		return nil, fmt.Errorf("unsupported grid size %d (want 4, 6 or 9)", n)
	}
	missing, err := rules.MissingValues(b.Values)
	if err != nil {
		return nil, err
	}
	empty := 0
	for _, m := range missing {
		empty += len(m)
	}
	if empty == 0 {
		return nil, fmt.Errorf("board has no empty cells")
	}

	cfg := s.cfg
	numElite := int(math.Round(float64(cfg.PopSize) * cfg.EliteFrac))
	if numElite < 2 {
		numElite = 2
	}
	if cfg.PopSize < numElite {
		return nil, fmt.Errorf("population size %d smaller than elite count %d", cfg.PopSize, numElite)
	}
	if cfg.MaxIters < 0 {
		return nil, fmt.Errorf("negative iteration budget %d", cfg.MaxIters)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	fixed := make([][]bool, n)
	for r := 0; r < n; r++ {
		fixed[r] = make([]bool, n)
		for c := 0; c < n; c++ {
			fixed[r][c] = b.Values[r][c] != 0
		}
	}

	run := &culturalRun{
		cfg:      cfg,
		n:        n,
		rng:      rng,
		eval:     newEvaluator(n, fixed),
		fixed:    fixed,
		missing:  missing,
		belief:   newBeliefSpace(n, rng),
		numElite: numElite,
	}

	run.pop = make([]individual, cfg.PopSize)
	for i := range run.pop {
		board := run.randomIndividual(b.Values)
		run.pop[i] = individual{board: board, fit: run.eval.fitness(board)}
	}
	best := &run.pop[0]
	for i := 1; i < len(run.pop); i++ {
		if run.pop[i].fit < best.fit {
			best = &run.pop[i]
		}
	}
	run.bestBoard = rules.Clone(best.board)
	run.bestFit = best.fit
	run.queue = append(run.queue, ports.Step{
		Kind:    ports.StepInit,
		Board:   rules.Clone(run.bestBoard),
		Fitness: run.bestFit,
	})
	return run, nil
}

// randomIndividual fills every non-fixed cell of a row with a shuffled
// permutation of the row's missing values, guaranteeing row-completeness by
// construction.
func (r *culturalRun) randomIndividual(puzzle domain.Grid) domain.Grid {
	board := rules.Clone(puzzle)
	for row := 0; row < r.n; row++ {
		vals := make([]int, len(r.missing[row]))
		copy(vals, r.missing[row])
		r.rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
		idx := 0
		for col := 0; col < r.n; col++ {
			if !r.fixed[row][col] {
				board[row][col] = vals[idx]
				idx++
			}
		}
	}
	return board
}

func (r *culturalRun) Next() (ports.Step, bool) {
	for len(r.queue) == 0 && !r.finished {
		r.advance()
	}
	if len(r.queue) == 0 {
		return ports.Step{}, false
	}
	s := r.queue[0]
	r.queue = r.queue[1:]
	return s, true
}

func (r *culturalRun) emit(s ports.Step) { r.queue = append(r.queue, s) }

func (r *culturalRun) terminate(kind ports.StepKind, fit, iter int, conflicts []domain.CellCoord) {
	r.emit(ports.Step{
		Kind:      kind,
		Board:     rules.Clone(r.bestBoard),
		Fitness:   fit,
		Iteration: iter,
		Conflicts: conflicts,
	})
	r.finished = true
}

// advance runs one generation: selection, belief update, reporting, local
// polish, and next-population construction. Events are queued in order.
func (r *culturalRun) advance() {
	r.iter++
	if r.iter > r.cfg.MaxIters {
		r.terminate(ports.StepFail, r.bestFit, r.cfg.MaxIters, r.eval.conflicts(r.bestBoard))
		return
	}

	sort.SliceStable(r.pop, func(i, j int) bool { return r.pop[i].fit < r.pop[j].fit })

	elites := r.pop[:r.numElite]
	r.belief.update(elites, r.eval.conflicts)

	curr := &r.pop[0]
	bad := r.eval.conflicts(curr.board)
	if curr.fit < r.bestFit {
		r.bestFit = curr.fit
		r.bestBoard = rules.Clone(curr.board)
	}
	r.emit(ports.Step{
		Kind:      ports.StepIter,
		Board:     rules.Clone(curr.board),
		Fitness:   r.bestFit,
		Iteration: r.iter,
		Conflicts: bad,
	})

	if len(bad) > 0 && r.polish(curr, bad) {
		return
	}
	r.regrow()

	if r.bestFit == 0 {
		r.terminate(ports.StepDone, 0, r.iter, nil)
	}
}

// polish greedily tries a single swap on the current best individual: one
// conflicted cell against another mutable cell in the same row, kept only on
// strict improvement. Returns true when the swap reached fitness zero and the
// run terminated.
func (r *culturalRun) polish(curr *individual, bad []domain.CellCoord) bool {
	polished := rules.Clone(curr.board)
	startFit := curr.fit

	cell := bad[r.rng.Intn(len(bad))]
	row, c1 := cell.Row, cell.Col
	var mutable []int
	for c := 0; c < r.n; c++ {
		if !r.fixed[row][c] && c != c1 {
			mutable = append(mutable, c)
		}
	}
	if len(mutable) == 0 {
		return false
	}
	c2 := mutable[r.rng.Intn(len(mutable))]

	r.emit(ports.Step{
		Kind:      ports.StepSwapTry,
		Iteration: r.iter,
		Swap:      &ports.Swap{Row: row, Col1: c1, Val1: polished[row][c2], Col2: c2, Val2: polished[row][c1]},
	})
	polished[row][c1], polished[row][c2] = polished[row][c2], polished[row][c1]
	r.emit(ports.Step{
		Kind:      ports.StepSwapReset,
		Iteration: r.iter,
		Swap:      &ports.Swap{Row: row, Col1: c1, Col2: c2},
	})

	newFit := r.eval.fitness(polished)
	if newFit < startFit {
		r.pop[0] = individual{board: polished, fit: newFit}
		if newFit < r.bestFit {
			r.bestFit = newFit
			r.bestBoard = rules.Clone(polished)
			if r.bestFit == 0 {
				r.terminate(ports.StepDone, 0, r.iter, nil)
				return true
			}
		}
	}
	return false
}

// regrow builds the next population: elites are cloned forward (their cached
// fitness approximated by the sorted population's best, a deliberate
// cost-saving imprecision), remaining slots come from crossover of an elite
// with a better-half parent plus belief-guided row-swap mutation.
func (r *culturalRun) regrow() {
	next := make([]individual, 0, r.cfg.PopSize)
	eliteFit := r.pop[0].fit
	for i := 0; i < r.numElite; i++ {
		next = append(next, individual{board: rules.Clone(r.pop[i].board), fit: eliteFit})
	}

	half := r.pop[:r.cfg.PopSize/2]
	for len(next) < r.cfg.PopSize {
		p1 := next[r.rng.Intn(r.numElite)].board
		p2 := half[r.rng.Intn(len(half))].board

		// The baseline coin flip is mostly overwritten by the per-row flips
		// below, but it shapes the row distribution and stays as-is.
		var child domain.Grid
		if r.rng.Float64() < 0.5 {
			child = rules.Clone(p1)
		} else {
			child = rules.Clone(p2)
		}
		for row := 0; row < r.n; row++ {
			if r.rng.Float64() < 0.5 {
				copy(child[row], p2[row])
			}
		}

		if r.rng.Float64() < r.cfg.MutationRate {
			r.mutate(child)
		}
		next = append(next, individual{board: child, fit: r.eval.fitness(child)})
	}
	r.pop = next
}

// mutate swaps two distinct mutable cells in a belief-selected row. Rows with
// fewer than two mutable cells are left untouched.
func (r *culturalRun) mutate(child domain.Grid) {
	row := r.belief.targetRow()
	var mutable []int
	for c := 0; c < r.n; c++ {
		if !r.fixed[row][c] {
			mutable = append(mutable, c)
		}
	}
	if len(mutable) < 2 {
		return
	}
	i := r.rng.Intn(len(mutable))
	j := r.rng.Intn(len(mutable) - 1)
	if j >= i {
		j++
	}
	c1, c2 := mutable[i], mutable[j]
	child[row][c1], child[row][c2] = child[row][c2], child[row][c1]
}
