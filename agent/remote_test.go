package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"tictactoe/game"
	"tictactoe/searcher"
	"time"

	"github.com/stretchr/testify/require"
)

func findMoveServer(t *testing.T, status int, response string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Board  game.Board  `json:"board"`
			Player game.Marker `json:"player"`
		}
		if r.URL.Path != "/findmove" || json.NewDecoder(r.Body).Decode(&payload) != nil || !payload.Player.IsPlayer() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRemoteAgent(t *testing.T) {
	b, err := game.ParseBoard("XX.OO....")
	require.NoError(t, err)

	t.Run("returning the served move", func(t *testing.T) {
		ts := findMoveServer(t, http.StatusOK, `{"index":2,"score":10}`)
		a := NewRemoteAgent(ts.URL+"/", time.Second)

		got, metrics, err := a.FindMove(b, game.PlayerX)

		require.NoError(t, err)
		require.Equal(t, 2, got)
		require.Equal(t, 1, metrics.Goroutines)
	})

	t.Run("terminal board", func(t *testing.T) {
		ts := findMoveServer(t, http.StatusConflict, `{"error":"board is full"}`)

		got, _, err := NewRemoteAgent(ts.URL, time.Second).FindMove(b, game.PlayerX)

		require.ErrorIs(t, err, searcher.ErrSearchPrecondition)
		require.Equal(t, searcher.NoIndex, got)
	})

	t.Run("occupied cell from the server", func(t *testing.T) {
		ts := findMoveServer(t, http.StatusOK, `{"index":0,"score":10}`)

		_, _, err := NewRemoteAgent(ts.URL, time.Second).FindMove(b, game.PlayerX)

		require.ErrorIs(t, err, game.ErrInvalidMove, "Moves from a remote agent are validated")
	})

	t.Run("server error", func(t *testing.T) {
		ts := findMoveServer(t, http.StatusInternalServerError, `boom`)

		_, _, err := NewRemoteAgent(ts.URL, time.Second).FindMove(b, game.PlayerX)

		require.ErrorContains(t, err, "status 500")
	})

	t.Run("invalid player", func(t *testing.T) {
		_, _, err := NewRemoteAgent("http://localhost:0", time.Second).FindMove(b, game.Empty)

		require.ErrorIs(t, err, game.ErrInvalidMarker)
	})

	require.Panics(t, func() { NewRemoteAgent("", time.Second) })
}
