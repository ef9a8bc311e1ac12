package searcher

import (
	"fmt"
	"sync"
	"tictactoe/game"
)

type Option func(m *Minimax)

// Minimax is an exhaustive game-tree search over the full board. It keeps no
// cache between calls, every BestMove explores the whole remaining tree.
type Minimax struct {
	maximizer  game.Marker
	minimizer  game.Marker
	goroutines int
	collector  func() MetricsCollector

	mu   sync.Mutex
	last MoveMetrics
}

// WithGoroutines spreads the root moves over up to n goroutines. The selected
// move is the same as with a sequential search.
func WithGoroutines(n int) Option {
	return func(m *Minimax) {
		if n > 0 {
			m.goroutines = n
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.collector = NewMetricsCollector
	}
}

// NewMinimax returns a search that maximizes for maximizer and minimizes for its opponent.
func NewMinimax(maximizer game.Marker, options ...Option) *Minimax {
	if !maximizer.IsPlayer() {
		panic("maximizer must be a player marker")
	}
	m := &Minimax{ // Default values
		maximizer:  maximizer,
		minimizer:  maximizer.Opponent(),
		goroutines: 1,
		collector:  NewNoMetricsCollector,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Maximizer() game.Marker {
	return m.maximizer
}

// BestMove returns the optimal cell for player to play on b. The board must
// not be terminal. b is passed by value and is never modified.
func (m *Minimax) BestMove(b game.Board, player game.Marker) (Move, error) {
	if !player.IsPlayer() {
		return Move{Index: NoIndex}, fmt.Errorf("%w: %v", game.ErrInvalidMarker, player)
	}
	if winner := b.Winner(); winner != game.Empty {
		return m.terminal(b), fmt.Errorf("%w: %v has already won", ErrSearchPrecondition, winner)
	}
	if game.IsFull(b) {
		return m.terminal(b), fmt.Errorf("%w: board is full", ErrSearchPrecondition)
	}

	c := m.collector()
	c.Start(m.goroutines)

	var move Move
	if m.goroutines > 1 {
		move = m.fanOut(b, player, c)
	} else {
		move = m.search(&b, player, c)
	}

	m.mu.Lock()
	m.last = c.Complete()
	m.mu.Unlock()
	return move, nil
}

// Evaluate returns the minimax value of b with player to move. Unlike
// BestMove it accepts terminal boards, for which the index is NoIndex.
func (m *Minimax) Evaluate(b game.Board, player game.Marker) (Move, error) {
	if !player.IsPlayer() {
		return Move{Index: NoIndex}, fmt.Errorf("%w: %v", game.ErrInvalidMarker, player)
	}
	return m.search(&b, player, NewNoMetricsCollector()), nil
}

// Metrics returns the metrics of the last completed BestMove.
func (m *Minimax) Metrics() MoveMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last
}

// terminal scores a finished position, checking the minimizer first.
func (m *Minimax) terminal(b game.Board) Move {
	switch {
	case game.HasWon(b, m.minimizer):
		return Move{Index: NoIndex, Score: LossScore}
	case game.HasWon(b, m.maximizer):
		return Move{Index: NoIndex, Score: WinScore}
	default:
		return Move{Index: NoIndex, Score: DrawScore}
	}
}

// search places each candidate on b and removes it again before the next one,
// so b is back in its original state when search returns.
func (m *Minimax) search(b *game.Board, player game.Marker, c MetricsCollector) Move {
	c.AddNode()

	if game.HasWon(*b, m.minimizer) || game.HasWon(*b, m.maximizer) {
		c.AddLeaf()
		return m.terminal(*b)
	}
	available := b.Available()
	if len(available) == 0 {
		c.AddLeaf()
		return Move{Index: NoIndex, Score: DrawScore}
	}

	moves := make([]Move, 0, len(available))
	for _, index := range available {
		b[index] = player
		reply := m.search(b, player.Opponent(), c)
		b[index] = game.Empty
		moves = append(moves, Move{Index: index, Score: reply.Score})
	}
	return m.pick(player, moves)
}

// fanOut runs the root children concurrently, each on its own copy of b.
func (m *Minimax) fanOut(b game.Board, player game.Marker, c MetricsCollector) Move {
	c.AddNode()

	available := b.Available()
	moves := make([]Move, len(available))
	sem := make(chan struct{}, m.goroutines)

	var wg sync.WaitGroup
	for i, index := range available {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, index int) {
			defer wg.Done()
			defer func() { <-sem }()

			child := b
			child[index] = player
			reply := m.search(&child, player.Opponent(), c)
			moves[i] = Move{Index: index, Score: reply.Score}
		}(i, index)
	}
	wg.Wait()

	return m.pick(player, moves)
}

// pick keeps the first move with the best score for player's role.
func (m *Minimax) pick(player game.Marker, moves []Move) Move {
	maximizing := player == m.maximizer
	best := moves[0]
	for _, move := range moves[1:] {
		if maximizing && move.Score > best.Score {
			best = move
		} else if !maximizing && move.Score < best.Score {
			best = move
		}
	}
	return best
}
