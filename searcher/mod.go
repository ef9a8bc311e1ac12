package searcher

import (
	"errors"
	"tictactoe/game"
)

// NoIndex marks a Move produced by a terminal position.
const NoIndex = -1

var ErrSearchPrecondition = errors.New("search precondition violated")

// Move is a candidate cell and its outcome from the maximizer's perspective.
type Move struct {
	Index int
	Score int
}

type Searcher interface {
	BestMove(b game.Board, player game.Marker) (Move, error)
}
