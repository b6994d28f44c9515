package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/sudoku-lab/internal/domain"
	"svw.info/sudoku-lab/internal/generator"
	"svw.info/sudoku-lab/internal/hint"
	"svw.info/sudoku-lab/internal/infrastructure/storage"
	"svw.info/sudoku-lab/internal/ports"
	"svw.info/sudoku-lab/internal/solver"
	"svw.info/sudoku-lab/internal/usecase"
	"svw.info/sudoku-lab/internal/validator"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := solver.NewBacktrackingSolver()
	uc := usecase.NewService(
		s,
		generator.NewUniqueGenerator(s),
		validator.New(),
		hint.NewSingles(),
		storage.NewFS(t.TempDir()),
	)
	r := gin.New()
	New(uc, 0).Register(r)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateEndpoint(t *testing.T) {
	r := testRouter(t)
	board := domain.Grid{
		{1, 1, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	w := postJSON(t, r, "/api/validate", map[string]any{"board": board})
	require.Equal(t, http.StatusOK, w.Code)

	var resp validateResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Conflicts)
}

func TestSolveEndpoint(t *testing.T) {
	r := testRouter(t)
	board := domain.Grid{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{2, 1, 4, 3},
		{4, 3, 2, 0},
	}
	w := postJSON(t, r, "/api/solve", map[string]any{"board": board})
	require.Equal(t, http.StatusOK, w.Code)

	var resp solveResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Board, 4)
	assert.Equal(t, 1, resp.Board[3][3])
}

func TestSaveLoadEndpoints(t *testing.T) {
	r := testRouter(t)
	p := domain.Puzzle{
		Board: domain.NewBoard(domain.Grid{
			{1, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}),
	}
	w := postJSON(t, r, "/api/save", p)
	require.Equal(t, http.StatusOK, w.Code)
	var saved saveResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	w = postJSON(t, r, "/api/load", map[string]string{"id": saved.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var loaded loadResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	require.NotNil(t, loaded.Puzzle)
	assert.Equal(t, saved.ID, loaded.Puzzle.ID)
}

func TestSolveStreamWebSocket(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/solve/stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	board := domain.Grid{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{2, 1, 4, 3},
		{4, 3, 2, 0},
	}
	delay := 0
	require.NoError(t, ws.WriteJSON(streamReq{
		Algorithm: "cultural",
		Board:     board,
		DelayMs:   &delay,
		PopSize:   10,
		EliteFrac: 0.2,
		MaxIters:  50,
		Seed:      42,
	}))

	sawInit := false
	for {
		var step ports.Step
		require.NoError(t, ws.ReadJSON(&step))
		if step.Kind == ports.StepInit {
			sawInit = true
		}
		if step.Terminal() {
			assert.Equal(t, ports.StepDone, step.Kind)
			assert.Zero(t, step.Fitness)
			break
		}
	}
	assert.True(t, sawInit, "stream starts with an init event")
}
