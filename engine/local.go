package engine

import (
	"fmt"
	"sync"
	"tictactoe/agent"
	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/rs/zerolog/log"
)

type Option func(l *Local)

// WithAIFirst lets the AI open every game.
func WithAIFirst() Option {
	return func(l *Local) {
		l.aiFirst = true
	}
}

// WithOnGameOver registers a callback invoked once per finished game, after the final move.
func WithOnGameOver(fn func(Result)) Option {
	return func(l *Local) {
		if fn != nil {
			l.onGameOver = fn
		}
	}
}

// Update is what a single human request changed on the board.
type Update struct {
	Turns  []Turn               `json:"turns"`
	Board  game.Board           `json:"board"`
	Status game.Status          `json:"status"`
	Winner game.Marker          `json:"winner"`
	Search searcher.MoveMetrics `json:"-"`
}

// Local owns the authoritative board of a human versus AI game. The human
// plays through PlayHuman, the AI replies within the same call.
type Local struct {
	mu         sync.Mutex
	human      game.Marker
	ai         game.Marker
	agent      agent.Agent
	aiFirst    bool
	onGameOver func(Result)
	board      game.Board
	history    []Turn
}

// NewLocal starts a game. If the AI moves first its opening is already on the board.
func NewLocal(human game.Marker, a agent.Agent, options ...Option) (*Local, error) {
	if !human.IsPlayer() {
		return nil, fmt.Errorf("%w: human must be X or O", game.ErrInvalidMarker)
	}
	if a == nil {
		panic("agent must not be nil")
	}
	l := &Local{
		human:      human,
		ai:         human.Opponent(),
		agent:      a,
		onGameOver: func(Result) {},
	}
	for _, option := range options {
		option(l)
	}
	if _, err := l.Reset(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reset clears the board and plays the AI opening when the AI moves first.
func (l *Local) Reset() (Update, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.board = game.Board{}
	l.history = nil
	log.Debug().Msgf("new game: human=%v ai=%v aiFirst=%t", l.human, l.ai, l.aiFirst)

	if !l.aiFirst {
		return l.update(nil, searcher.MoveMetrics{}), nil
	}
	turn, search, err := l.playAI()
	if err != nil {
		return Update{}, err
	}
	return l.update([]Turn{turn}, search), nil
}

// PlayHuman plays the human's move at index and, if the game goes on, the AI reply.
func (l *Local) PlayHuman(index int) (Update, error) {
	l.mu.Lock()
	u, err := l.playHuman(index)
	var result Result
	over := err == nil && u.Status != game.InProgress
	if over {
		result = l.result()
	}
	l.mu.Unlock()

	if over {
		log.Info().Msgf("game over: status=%v winner=%v board=%s", result.Status, result.Winner, result.Board)
		l.onGameOver(result)
	}
	return u, err
}

func (l *Local) playHuman(index int) (Update, error) {
	if game.IsTerminal(l.board) {
		return Update{}, ErrGameOver
	}
	if l.toMove() != l.human {
		return Update{}, ErrNotYourTurn
	}

	next, err := l.board.Play(index, l.human)
	if err != nil {
		return Update{}, fmt.Errorf("human move: %w", err)
	}
	l.board = next
	turns := []Turn{{Player: l.human, Index: index}}
	l.history = append(l.history, turns[0])

	if game.IsTerminal(l.board) {
		return l.update(turns, searcher.MoveMetrics{}), nil
	}

	turn, search, err := l.playAI()
	if err != nil {
		// Take the human move back so the request can be retried.
		l.board[index] = game.Empty
		l.history = l.history[:len(l.history)-1]
		return Update{}, err
	}
	return l.update(append(turns, turn), search), nil
}

func (l *Local) playAI() (Turn, searcher.MoveMetrics, error) {
	index, search, err := l.agent.FindMove(l.board, l.ai)
	if err != nil {
		return Turn{}, search, fmt.Errorf("ai move: %w", err)
	}
	next, err := l.board.Play(index, l.ai)
	if err != nil {
		return Turn{}, search, fmt.Errorf("ai returned an illegal move: %w", err)
	}
	l.board = next
	turn := Turn{Player: l.ai, Index: index}
	l.history = append(l.history, turn)
	log.Debug().Msgf("ai played %d in %v (%d nodes)", index, search.Duration, search.Nodes)
	return turn, search, nil
}

// toMove derives whose turn it is from the number of markers on the board.
func (l *Local) toMove() game.Marker {
	first, second := l.human, l.ai
	if l.aiFirst {
		first, second = l.ai, l.human
	}
	if l.board.Count(first) > l.board.Count(second) {
		return second
	}
	return first
}

func (l *Local) update(turns []Turn, search searcher.MoveMetrics) Update {
	return Update{
		Turns:  turns,
		Board:  l.board,
		Status: l.board.Status(),
		Winner: l.board.Winner(),
		Search: search,
	}
}

func (l *Local) result() Result {
	history := make([]Turn, len(l.history))
	copy(history, l.history)
	return Result{
		Status: l.board.Status(),
		Winner: l.board.Winner(),
		Board:  l.board,
		Turns:  history,
	}
}

func (l *Local) Board() game.Board {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.board
}

func (l *Local) Status() game.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.board.Status()
}

func (l *Local) Winner() game.Marker {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.board.Winner()
}

func (l *Local) History() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.result().Turns
}

func (l *Local) Human() game.Marker {
	return l.human
}

func (l *Local) AI() game.Marker {
	return l.ai
}
