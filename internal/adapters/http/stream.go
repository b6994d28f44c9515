package httpadapter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/solver"
	"svw.info/sudoku-lab/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamReq is the first frame a client sends after connecting.
type streamReq struct {
	Algorithm string      `json:"algorithm"` // "cultural" (default) or "backtracking"
	Board     domain.Grid `json:"board"`
	DelayMs   *int        `json:"delayMs,omitempty"`

	// Optional cultural overrides; zero fields keep the production defaults.
	PopSize   int     `json:"popSize,omitempty"`
	EliteFrac float64 `json:"eliteFrac,omitempty"`
	MaxIters  int     `json:"maxIters,omitempty"`
	Seed      int64   `json:"seed,omitempty"`
}

func parseAlgorithm(s string) domain.Algorithm {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "back") {
		return domain.AlgorithmBacktracking
	}
	return domain.AlgorithmCultural
}

// handleSolveStream runs a solve as a WebSocket session: one JSON frame per
// step event, with an optional pacing delay between frames. The client stops
// a run by sending any frame with {"action":"stop"} or by disconnecting;
// the loop checks for that once per produced event, so the solver itself
// needs no cancellation hooks.
func (h *Handler) handleSolveStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	var req streamReq
	if err := ws.ReadJSON(&req); err != nil {
		slog.Info("stream client gone before request", "err", err)
		return
	}
	alg := parseAlgorithm(req.Algorithm)

	cfg := h.Cultural
	if req.PopSize != 0 || req.EliteFrac != 0 || req.MaxIters != 0 || req.Seed != 0 {
		cfg = &solver.CulturalConfig{
			PopSize:   req.PopSize,
			EliteFrac: req.EliteFrac,
			MaxIters:  req.MaxIters,
			Seed:      req.Seed,
		}
	}

	board := domain.NewBoard(req.Board)
	stream, err := h.UC.StreamSolve(alg, &board, cfg)
	if err != nil {
		_ = ws.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	delay := time.Duration(h.DelayMs) * time.Millisecond
	if req.DelayMs != nil {
		delay = time.Duration(*req.DelayMs) * time.Millisecond
	}

	// Reader goroutine: the only thing a client can say mid-run is "stop".
	stop := make(chan struct{})
	go func() {
		defer close(stop)
		for {
			var msg struct {
				Action string `json:"action"`
			}
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Action == "stop" {
				return
			}
		}
	}()

	slog.Info("solve stream started", "algorithm", alg.String(), "size", board.Size, "delay", delay)
	outcome := "aborted"
	for {
		step, ok := stream.Next()
		if !ok {
			break
		}
		select {
		case <-stop:
			slog.Info("solve stream stopped by client")
			telemetry.SolveRuns.WithLabelValues(alg.String(), outcome).Inc()
			return
		default:
		}
		if err := ws.WriteJSON(step); err != nil {
			slog.Info("solve stream client disconnected", "err", err)
			telemetry.SolveRuns.WithLabelValues(alg.String(), outcome).Inc()
			return
		}
		if step.Terminal() {
			outcome = string(step.Kind)
			telemetry.SolveIterations.WithLabelValues(alg.String()).Observe(float64(step.Iteration))
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	telemetry.SolveRuns.WithLabelValues(alg.String(), outcome).Inc()
	slog.Info("solve stream finished", "algorithm", alg.String(), "outcome", outcome)
}
