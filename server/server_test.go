package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/store"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAgent struct {
	moves []int
}

func (s *scriptedAgent) FindMove(b game.Board, player game.Marker) (int, searcher.MoveMetrics, error) {
	index := s.moves[0]
	s.moves = s.moves[1:]
	return index, searcher.MoveMetrics{}, nil
}

func newTestServer(t *testing.T, a agent.Agent, options ...Option) *httptest.Server {
	t.Helper()
	local, err := engine.NewLocal(game.PlayerX, a)
	require.NoError(t, err)
	ts := httptest.NewServer(New(local, options...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func get(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestFindMove(t *testing.T) {
	ts := newTestServer(t, &scriptedAgent{}, WithGoroutines(2))

	t.Run("winning move", func(t *testing.T) {
		var got findMoveResponse
		status := post(t, ts, "/findmove", `{"board":"XX.OO....","player":"X"}`, &got)

		require.Equal(t, http.StatusOK, status)
		require.Equal(t, findMoveResponse{Index: 2, Score: searcher.WinScore}, got)
	})

	t.Run("terminal board", func(t *testing.T) {
		status := post(t, ts, "/findmove", `{"board":"XXXOO....","player":"O"}`, nil)

		require.Equal(t, http.StatusConflict, status, "Terminal boards violate the search precondition")
	})

	t.Run("malformed board", func(t *testing.T) {
		status := post(t, ts, "/findmove", `{"board":"XX","player":"O"}`, nil)

		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("missing player", func(t *testing.T) {
		status := post(t, ts, "/findmove", `{"board":"........."}`, nil)

		require.Equal(t, http.StatusBadRequest, status)
	})
}

func TestEvaluate(t *testing.T) {
	ts := newTestServer(t, &scriptedAgent{})

	var got map[string]any
	status := post(t, ts, "/evaluate", `{"board":"XOXXOOOXX"}`, &got)

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]any{"status": "draw", "winner": ".", "full": true, "terminal": true}, got)
}

func TestGame(t *testing.T) {
	ts := newTestServer(t, agent.NewMinimaxAgent(searcher.NewMinimax(game.PlayerO)))

	var got gameResponse
	status := post(t, ts, "/game/move", `{"row":1,"col":1}`, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Played, 2, "Human move and AI reply")
	require.Equal(t, game.PlayerX, got.Board[4])

	status = post(t, ts, "/game/move", `{"index":4}`, nil)
	require.Equal(t, http.StatusBadRequest, status, "Taken cell should be rejected")

	status = post(t, ts, "/game/move", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, status)

	got = gameResponse{}
	status = get(t, ts, "/game", &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Turns, 2)
	require.Equal(t, game.PlayerX, got.Human)
	require.Equal(t, game.PlayerO, got.AI)

	got = gameResponse{}
	status = post(t, ts, "/game/reset", ``, &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, game.Board{}, got.Board)
}

func TestHistory(t *testing.T) {
	t.Run("disabled without store", func(t *testing.T) {
		ts := newTestServer(t, &scriptedAgent{})

		require.Equal(t, http.StatusNotFound, get(t, ts, "/games", nil))
		require.Equal(t, http.StatusNotFound, get(t, ts, "/stats", nil))
	})

	t.Run("finished games are listed", func(t *testing.T) {
		st, err := store.Open(filepath.Join(t.TempDir(), "games.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })

		local, err := engine.NewLocal(game.PlayerX, &scriptedAgent{moves: []int{3, 4}},
			engine.WithOnGameOver(func(r engine.Result) {
				_, err := st.SaveGame(context.Background(), store.Game{Human: game.PlayerX, AI: game.PlayerO, Result: r})
				assert.NoError(t, err)
			}))
		require.NoError(t, err)
		ts := httptest.NewServer(New(local, WithStore(st)).Handler())
		t.Cleanup(ts.Close)

		for _, index := range []int{0, 1, 2} {
			require.Equal(t, http.StatusOK, post(t, ts, "/game/move", `{"index":`+strconv.Itoa(index)+`}`, nil))
		}
		require.Equal(t, http.StatusConflict, post(t, ts, "/game/move", `{"index":8}`, nil), "Game should be over")

		var games []gameRecord
		require.Equal(t, http.StatusOK, get(t, ts, "/games?limit=5", &games))
		require.Len(t, games, 1)
		require.Equal(t, game.PlayerX, games[0].Winner)
		require.Equal(t, game.Won, games[0].Status)
		require.Len(t, games[0].Turns, 5)

		var stats store.Stats
		require.Equal(t, http.StatusOK, get(t, ts, "/stats", &stats))
		require.Equal(t, store.Stats{Games: 1, HumanWins: 1}, stats)

		require.Equal(t, http.StatusBadRequest, get(t, ts, "/games?limit=zero", nil))
	})
}

func TestRemoteAgentAgainstServer(t *testing.T) {
	ts := newTestServer(t, &scriptedAgent{})
	remote := agent.NewRemoteAgent(ts.URL, 5*time.Second)
	local := agent.NewMinimaxAgent(searcher.NewMinimax(game.PlayerO))

	gameMetric, moveMetrics, err := engine.NewMatch(remote, local, game.PlayerX, engine.WithCollector(metrics.NewCollector())).Run()

	require.NoError(t, err)
	require.Equal(t, game.Empty, gameMetric.Winner, "Optimal play over HTTP should still draw")
	require.Equal(t, game.Cells, gameMetric.TotalMoves)
	require.Len(t, moveMetrics, game.Cells)
	require.Positive(t, moveMetrics[0].Duration, "Remote moves are timed by the client")
}
