package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SolveRuns counts finished solve streams by algorithm and terminal outcome
// ("done", "fail", "aborted").
var SolveRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sudokulab",
	Name:      "solve_runs_total",
	Help:      "Finished solve runs by algorithm and outcome.",
}, []string{"algorithm", "outcome"})

// SolveIterations observes the iteration count carried by a run's terminal
// event.
var SolveIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "sudokulab",
	Name:      "solve_iterations",
	Help:      "Iterations (or search steps) until a run terminated.",
	Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
}, []string{"algorithm"})

// GenerateDuration observes wall time of puzzle generation.
var GenerateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "sudokulab",
	Name:      "generate_duration_seconds",
	Help:      "Puzzle generation wall time.",
	Buckets:   prometheus.DefBuckets,
})
