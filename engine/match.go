package engine

import (
	"fmt"
	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

type MatchOption func(m *Match)

func WithCollector(collector metrics.Collector) MatchOption {
	return func(m *Match) {
		if collector != nil {
			m.collector = collector
		}
	}
}

// Match plays two agents against each other on a fresh board.
type Match struct {
	agents    map[game.Marker]agent.Agent
	first     game.Marker
	collector metrics.Collector
}

func NewMatch(x, o agent.Agent, first game.Marker, options ...MatchOption) *Match {
	if x == nil || o == nil {
		panic("need two agents")
	}
	if !first.IsPlayer() {
		panic("first player must be X or O")
	}
	m := &Match{
		agents:    map[game.Marker]agent.Agent{game.PlayerX: x, game.PlayerO: o},
		first:     first,
		collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Run executes the game loop until the board is won or full.
func (m *Match) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	var board game.Board
	player := m.first
	m.collector.Start(m.first)

	log.Debug().Msgf("player %v is starting", player)

	for step := 1; !game.IsTerminal(board) && step <= MaxMoves; step++ {
		index, search, err := m.agents[player].FindMove(board, player)
		if err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("step %d, player %v: %w", step, player, err)
		}
		next, err := board.Play(index, player)
		if err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("step %d, player %v: %w", step, player, err)
		}
		m.collector.AddMove(metrics.MoveMetric{
			Step:        step,
			Player:      player,
			Index:       index,
			MoveMetrics: search,
		})

		board = next
		player = player.Opponent()
	}

	gameMetric, moveMetrics := m.collector.Complete(board)
	log.Debug().Msgf("game over: winner=%v board=%s", gameMetric.Winner, board)
	return gameMetric, moveMetrics, nil
}
