package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"tictactoe/game"
	"tictactoe/searcher"
	"time"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent returns an agent that asks the /findmove endpoint at baseURL for its moves.
func NewRemoteAgent(baseURL string, timeout time.Duration) Agent {
	if baseURL == "" {
		panic("remote agent needs a base URL")
	}
	return remoteAgent{
		url:    strings.TrimRight(baseURL, "/") + "/findmove",
		client: &http.Client{Timeout: timeout},
	}
}

func (a remoteAgent) FindMove(b game.Board, player game.Marker) (int, searcher.MoveMetrics, error) {
	if !player.IsPlayer() {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("%w: %v", game.ErrInvalidMarker, player)
	}
	payload := struct {
		Board  game.Board  `json:"board"`
		Player game.Marker `json:"player"`
	}{
		Board:  b,
		Player: player,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return searcher.NoIndex, searcher.MoveMetrics{}, err
	}

	start := time.Now()
	resp, err := a.client.Post(a.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("requesting move: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return searcher.NoIndex, searcher.MoveMetrics{}, searcher.ErrSearchPrecondition
	default:
		out, _ := io.ReadAll(resp.Body)
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var move searcher.Move
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("decoding move: %w", err)
	}
	if move.Index < 0 || move.Index >= game.Cells || b[move.Index] != game.Empty {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("%w: agent returned cell %d", game.ErrInvalidMove, move.Index)
	}
	return move.Index, searcher.MoveMetrics{StartTime: start, Duration: time.Since(start), Goroutines: 1}, nil
}
