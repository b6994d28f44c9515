package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/solver"
	"svw.info/sudoku-lab/internal/telemetry"
	"svw.info/sudoku-lab/internal/usecase"
)

// Handler exposes the use-case service as a JSON API.
type Handler struct {
	UC       *usecase.Service
	DelayMs  int                    // default pacing between streamed events
	Cultural *solver.CulturalConfig // server-wide cultural overrides, may be nil
}

func New(uc *usecase.Service, delayMs int) *Handler {
	return &Handler{UC: uc, DelayMs: delayMs}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/generate", h.handleGenerate)
	api.POST("/solve", h.handleSolve)
	api.POST("/validate", h.handleValidate)
	api.POST("/hint", h.handleHint)
	api.POST("/save", h.handleSave)
	api.POST("/load", h.handleLoad)
	api.GET("/list", h.handleList)
	api.GET("/solve/stream", h.handleSolveStream)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
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

func parseTier(s string) domain.StrategyTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pairs":
		return domain.StrategyPairs
	case "advanced":
		return domain.StrategyAdvanced
	default:
		return domain.StrategySingles
	}
}

// ---- Generate ----

type generateReq struct {
	Size       int    `json:"size"`
	Difficulty string `json:"difficulty,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

type generateResp struct {
	Puzzle     *domain.Puzzle `json:"puzzle,omitempty"`
	Seed       int64          `json:"seed,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Nodes      int            `json:"nodes,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Size == 0 {
		req.Size = 9
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p, st, err := h.UC.Generate(c.Request.Context(), seed, req.Size, parseDifficulty(req.Difficulty))
	if err != nil {
		c.JSON(http.StatusBadRequest, generateResp{Error: err.Error()})
		return
	}
	telemetry.GenerateDuration.Observe(st.Duration.Seconds())
	c.JSON(http.StatusOK, generateResp{
		Puzzle:     p,
		Seed:       seed,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Solve ----

type solveReq struct {
	Board domain.Grid `json:"board"`
}
type solveResp struct {
	Board      domain.Grid `json:"board,omitempty"`
	DurationMs int64       `json:"durationMs,omitempty"`
	Nodes      int         `json:"nodes,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func (h *Handler) handleSolve(c *gin.Context) {
	var req solveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	in := domain.NewBoard(req.Board)
	out, st, err := h.UC.Solve(c.Request.Context(), &in)
	if err != nil {
		c.JSON(http.StatusBadRequest, solveResp{Error: err.Error(), DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
		return
	}
	c.JSON(http.StatusOK, solveResp{Board: out.Values, DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
}

// ---- Validate ----

type validateReq struct {
	Board domain.Grid `json:"board"`
}
type validateResp struct {
	OK        bool               `json:"ok"`
	Conflicts []domain.CellCoord `json:"conflicts,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func (h *Handler) handleValidate(c *gin.Context) {
	var req validateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b := domain.Board{Size: len(req.Board), Values: req.Board}
	ok, conflicts, err := h.UC.Validate(c.Request.Context(), &b)
	if err != nil {
		c.JSON(http.StatusBadRequest, validateResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, validateResp{OK: ok, Conflicts: conflicts})
}

// ---- Hint ----

type hintReq struct {
	Board   domain.Grid `json:"board"`
	MaxTier string      `json:"maxTier,omitempty"`
}
type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) handleHint(c *gin.Context) {
	var req hintReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, hintResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	b := domain.Board{Size: len(req.Board), Values: req.Board}
	hh, ok, err := h.UC.Hint(c.Request.Context(), &b, parseTier(req.MaxTier))
	if err != nil {
		c.JSON(http.StatusBadRequest, hintResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, hintResp{Found: ok, Hint: hh})
}

// ---- Save / Load / List ----

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(c *gin.Context) {
	var p domain.Puzzle
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	if p.Size == 0 {
		p.Size = len(p.Board.Values)
	}
	if err := h.UC.Save(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, saveResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, saveResp{ID: p.ID})
}

type loadReq struct {
	ID string `json:"id"`
}
type loadResp struct {
	Puzzle *domain.Puzzle `json:"puzzle,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (h *Handler) handleLoad(c *gin.Context) {
	var req loadReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, loadResp{Error: "invalid JSON or missing id"})
		return
	}
	p, err := h.UC.Load(c.Request.Context(), req.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, loadResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, loadResp{Puzzle: p})
}

type listResp struct {
	Puzzles []domain.PuzzleMeta `json:"puzzles"`
	Error   string              `json:"error,omitempty"`
}

func (h *Handler) handleList(c *gin.Context) {
	ps, err := h.UC.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, listResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, listResp{Puzzles: ps})
}
