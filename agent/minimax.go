package agent

import (
	"tictactoe/game"
	"tictactoe/searcher"
)

type minimaxAgent struct {
	minimax *searcher.Minimax
}

// NewMinimaxAgent returns an agent that always plays the optimal move.
func NewMinimaxAgent(minimax *searcher.Minimax) Agent {
	return minimaxAgent{minimax: minimax}
}

func (a minimaxAgent) FindMove(b game.Board, player game.Marker) (int, searcher.MoveMetrics, error) {
	move, err := a.minimax.BestMove(b, player)
	if err != nil {
		return searcher.NoIndex, searcher.MoveMetrics{}, err
	}
	return move.Index, a.minimax.Metrics(), nil
}
