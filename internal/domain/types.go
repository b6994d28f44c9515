package domain

// Grid is an N×N value matrix; 0 marks an empty cell.
type Grid [][]int

// Board holds current values and which cells are fixed givens.
type Board struct {
	Size   int      `json:"size"`
	Values Grid     `json:"board"`
	Fixed  [][]bool `json:"fixed,omitempty"`
}

// CellCoord identifies a cell on the board.
type CellCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Hint describes a strategy suggestion for the UI.
type Hint struct {
	Message  string       `json:"message,omitempty"`
	Cells    []CellCoord  `json:"cells,omitempty"`
	Value    int          `json:"value,omitempty"`
	Strategy StrategyTier `json:"strategy,omitempty"`
}

// Puzzle is a persisted Sudoku with metadata.
type Puzzle struct {
	ID         string     `json:"id,omitempty"`
	Seed       int64      `json:"seed,omitempty"`
	Size       int        `json:"size,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Board      Board      `json:"board"`
	CreatedAt  int64      `json:"createdAt,omitempty"`
	// Optional user metadata
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Size       int        `json:"size,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}

// NewBoard builds a Board around grid, marking every non-zero cell as fixed.
func NewBoard(grid Grid) Board {
	n := len(grid)
	fixed := make([][]bool, n)
	for r := 0; r < n; r++ {
		fixed[r] = make([]bool, n)
		for c := 0; c < n; c++ {
			fixed[r][c] = grid[r][c] != 0
		}
	}
	return Board{Size: n, Values: grid, Fixed: fixed}
}
