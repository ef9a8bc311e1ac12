package agent

import (
	"tictactoe/game"
	"tictactoe/searcher"
)

type Agent interface {
	// FindMove returns the cell player should play on b, and the search metrics if collected
	FindMove(b game.Board, player game.Marker) (int, searcher.MoveMetrics, error)
}
