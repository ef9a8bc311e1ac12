package metrics

import (
	"tictactoe/game"
	"tictactoe/searcher"
	"time"
)

type AgentConfig struct {
	ID         int
	Kind       string // "minimax" or "random"
	Goroutines int
	Seed       uint64
}

type MoveMetric struct {
	Step   int
	Player game.Marker
	Index  int
	searcher.MoveMetrics
}

type GameMetric struct {
	StartingPlayer game.Marker
	Winner         game.Marker // Empty for a draw
	Board          game.Board  // Final position
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(starting game.Marker)
	AddMove(move MoveMetric)
	Complete(final game.Board) (GameMetric, []MoveMetric)
}

type collector struct {
	starting  game.Marker
	startTime time.Time
	moves     []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(starting game.Marker) {
	c.starting = starting
	c.startTime = time.Now()
	c.moves = c.moves[:0]
}

func (c *collector) AddMove(move MoveMetric) {
	c.moves = append(c.moves, move)
}

func (c *collector) Complete(final game.Board) (GameMetric, []MoveMetric) {
	end := time.Now()
	moves := make([]MoveMetric, len(c.moves))
	copy(moves, c.moves)
	return GameMetric{
		StartingPlayer: c.starting,
		Winner:         final.Winner(),
		Board:          final,
		StartTime:      c.startTime,
		EndTime:        end,
		Duration:       end.Sub(c.startTime),
		TotalMoves:     len(c.moves),
	}, moves
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(starting game.Marker) {}
func (c *dummyCollector) AddMove(move MoveMetric)    {}
func (c *dummyCollector) Complete(final game.Board) (GameMetric, []MoveMetric) {
	return GameMetric{Winner: final.Winner(), Board: final}, nil
}
