package engine

import (
	"errors"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

// MaxMoves bounds a game: every move fills a cell.
const MaxMoves = game.Cells

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotYourTurn = errors.New("not your turn")
)

type Engine interface {
	// Run plays a game till it is won or drawn
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Turn is a single move played on the board.
type Turn struct {
	Player game.Marker `json:"player"`
	Index  int         `json:"index"`
}

// Result describes a finished game.
type Result struct {
	Status game.Status `json:"status"`
	Winner game.Marker `json:"winner"`
	Board  game.Board  `json:"board"`
	Turns  []Turn      `json:"turns"`
}
