package domain

// Difficulty labels target puzzle generation & grading.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// StrategyTier limits hinting/logic complexity used.
type StrategyTier int

const (
	StrategySingles StrategyTier = iota // singles / sole candidates
	StrategyPairs                       // naked/hidden pairs
	StrategyAdvanced                    // pointing/claiming, triples, etc.
)

// Algorithm selects a solving strategy for the step stream.
type Algorithm int

const (
	AlgorithmCultural Algorithm = iota
	AlgorithmBacktracking
)

func (a Algorithm) String() string {
	if a == AlgorithmBacktracking {
		return "backtracking"
	}
	return "cultural"
}
