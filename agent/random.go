package agent

import (
	"fmt"
	"sync"
	"tictactoe/game"
	"tictactoe/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random empty cell.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(b game.Board, player game.Marker) (int, searcher.MoveMetrics, error) {
	if !player.IsPlayer() {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("%w: %v", game.ErrInvalidMarker, player)
	}
	if game.IsTerminal(b) {
		return searcher.NoIndex, searcher.MoveMetrics{}, fmt.Errorf("%w: board %s is terminal", searcher.ErrSearchPrecondition, b)
	}

	moves := b.Available()
	a.mu.Lock()
	ith := a.rng.Intn(len(moves))
	a.mu.Unlock()
	return moves[ith], searcher.MoveMetrics{}, nil
}
