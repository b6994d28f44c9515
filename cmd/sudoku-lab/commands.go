package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	httpadapter "svw.info/sudoku-lab/internal/adapters/http"
	"svw.info/sudoku-lab/internal/config"
	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/generator"
	"svw.info/sudoku-lab/internal/hint"
	"svw.info/sudoku-lab/internal/infrastructure/storage"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/solver"
	"svw.info/sudoku-lab/internal/usecase"
	"svw.info/sudoku-lab/internal/validator"
)

var (
	configPath string

	serveAddr    string
	servePersist string
	serveLevel   string
	serveDelayMs int

	genSize int
	genDiff string
	genSeed int64

	solveAlgo  string
	solveFile  string
	solveSteps bool
	solveSeed  int64
	solvePop   int
	solveIters int
)

var rootCmd = &cobra.Command{
	Use:   "sudoku-lab",
	Short: "Grid-constraint puzzle demonstrator with interchangeable solving strategies",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and solve-stream server",
	RunE:  runServe,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a puzzle and print it as JSON",
	RunE:  runGenerate,
}

var solveCmd = &cobra.Command{
	Use:   "solve [puzzle.json]",
	Short: "Solve a puzzle file, optionally printing every step event",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "config file path")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&servePersist, "persist-path", "", "save directory (overrides config)")
	serveCmd.Flags().StringVar(&serveLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	serveCmd.Flags().IntVar(&serveDelayMs, "delay-ms", -1, "default stream pacing delay (overrides config)")

	generateCmd.Flags().IntVar(&genSize, "size", 9, "grid size: 4, 6 or 9")
	generateCmd.Flags().StringVar(&genDiff, "difficulty", "medium", "easy|medium|hard|expert")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "rng seed (0 = from clock)")

	solveCmd.Flags().StringVar(&solveAlgo, "algorithm", "cultural", "cultural|backtracking")
	solveCmd.Flags().StringVar(&solveFile, "file", "", "puzzle JSON file (or pass as argument; - = stdin)")
	solveCmd.Flags().BoolVar(&solveSteps, "steps", false, "print every step event as a JSON line")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 0, "cultural rng seed (0 = from clock)")
	solveCmd.Flags().IntVar(&solvePop, "pop-size", 0, "cultural population size (0 = default)")
	solveCmd.Flags().IntVar(&solveIters, "max-iters", 0, "cultural iteration budget (0 = default)")

	rootCmd.AddCommand(serveCmd, generateCmd, solveCmd)
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// requestLogger logs method, path, status, bytes, and duration per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"dur", time.Since(start).Round(time.Millisecond),
		)
	}
}

func newService(dataDir string) *usecase.Service {
	s := solver.NewBacktrackingSolver()
	g := generator.NewUniqueGenerator(s)
	v := validator.New()
	st := storage.NewFS(dataDir)
	hin := hint.NewSingles()
	return usecase.NewService(s, g, v, hin, st)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("persist-path") {
		cfg.DataDir = servePersist
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = serveLevel
	}
	if cmd.Flags().Changed("delay-ms") {
		cfg.DelayMs = serveDelayMs
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	uc := newService(cfg.DataDir)
	h := httpadapter.New(uc, cfg.DelayMs)
	if sc := cfg.Solver; sc.PopSize != 0 || sc.EliteFrac != 0 || sc.MaxIters != 0 {
		h.Cultural = &solver.CulturalConfig{
			PopSize:   sc.PopSize,
			EliteFrac: sc.EliteFrac,
			MaxIters:  sc.MaxIters,
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	h.Register(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening", "addr", cfg.Addr, "persist", cfg.DataDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := generator.NewUniqueGenerator(solver.NewBacktrackingSolver())
	p, st, err := g.Generate(context.Background(), seed, genSize, parseDifficulty(genDiff))
	if err != nil {
		return err
	}
	slog.Debug("generated", "nodes", st.Nodes, "dur", st.Duration)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func parseDifficulty(s string) domain.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return domain.Easy
	case "hard":
		return domain.Hard
	case "expert":
		return domain.Expert
	default:
		return domain.Medium
	}
}

func readPuzzle(path string) (domain.Grid, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	// Accept either a persisted Puzzle or a bare grid.
	var p domain.Puzzle
	if err := json.Unmarshal(data, &p); err == nil && len(p.Board.Values) > 0 {
		return p.Board.Values, nil
	}
	var g domain.Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("not a puzzle or grid JSON: %w", err)
	}
	return g, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	path := solveFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no puzzle given (use --file or an argument)")
	}
	grid, err := readPuzzle(path)
	if err != nil {
		return err
	}
	board := domain.NewBoard(grid)
	return streamToStdout(&board)
}

func streamToStdout(board *domain.Board) error {
	uc := newService(os.TempDir())
	var cfg *solver.CulturalConfig
	if solveSeed != 0 || solvePop != 0 || solveIters != 0 {
		cfg = &solver.CulturalConfig{Seed: solveSeed, PopSize: solvePop, MaxIters: solveIters}
	}
	alg := domain.AlgorithmCultural
	if strings.HasPrefix(strings.ToLower(solveAlgo), "back") {
		alg = domain.AlgorithmBacktracking
	}
	stream, err := uc.StreamSolve(alg, board, cfg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for {
		step, ok := stream.Next()
		if !ok {
			return nil
		}
		if solveSteps {
			if err := enc.Encode(step); err != nil {
				return err
			}
		}
		if step.Terminal() {
			if !solveSteps {
				if err := enc.Encode(step); err != nil {
					return err
				}
			}
			if step.Kind == ports.StepFail {
				return fmt.Errorf("no solution within budget (fitness %d)", step.Fitness)
			}
			return nil
		}
	}
}
