package experiments

import (
	"fmt"
	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/rs/zerolog/log"
)

const (
	KindMinimax = "minimax"
	KindRandom  = "random"
)

// MatchUp pairs the agent playing X with the agent playing O.
type MatchUp struct {
	X     metrics.AgentConfig
	O     metrics.AgentConfig
	First game.Marker
}

type Summary struct {
	Games int
	WinsX int
	WinsO int
	Draws int
	Dir   string // Where the records were written, empty if nothing was written
}

var (
	optimalAgent  = metrics.AgentConfig{ID: 1, Kind: KindMinimax, Goroutines: 1}
	parallelAgent = metrics.AgentConfig{ID: 2, Kind: KindMinimax, Goroutines: 4}
	randomAgent   = metrics.AgentConfig{ID: 3, Kind: KindRandom, Seed: 1}
)

// DefaultConfigs returns the agents used by DefaultMatchUps.
func DefaultConfigs() []metrics.AgentConfig {
	return []metrics.AgentConfig{optimalAgent, parallelAgent, randomAgent}
}

// DefaultMatchUps pits the optimal agent against itself, a parallel copy and
// a random baseline, with both starting players.
func DefaultMatchUps() []MatchUp {
	return []MatchUp{
		{X: optimalAgent, O: parallelAgent, First: game.PlayerX},
		{X: optimalAgent, O: randomAgent, First: game.PlayerX},
		{X: randomAgent, O: optimalAgent, First: game.PlayerX},
		{X: optimalAgent, O: randomAgent, First: game.PlayerO},
	}
}

// Run plays games per matchup and, if dir is set, stores the records as CSV under dir/name.
func Run(name string, configs []metrics.AgentConfig, matchUps []MatchUp, games int, dir string) (Summary, error) {
	count := 0
	summary := Summary{}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between x=%+v and o=%+v...", mi+1, len(matchUps), matchUp.X, matchUp.O)

		for i := 0; i < games; i++ {
			x := NewAgent(matchUp.X, game.PlayerX, uint64(i))
			o := NewAgent(matchUp.O, game.PlayerO, uint64(i))
			m := engine.NewMatch(x, o, matchUp.First, engine.WithCollector(metrics.NewCollector()))

			gameMetric, moveMetrics, err := m.Run()
			if err != nil {
				return summary, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			summary.add(gameMetric.Winner)
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     matchUp.X.ID,
				Agent2:     matchUp.O.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Debug().Msgf("completed matchup %d game %d with winner: %v", mi+1, i+1, gameMetric.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment: %+v", name, summary)

	if dir == "" {
		return summary, nil
	}
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return summary, err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, err
	}
	summary.Dir = writer.Dir()
	log.Info().Msgf("stored experiment records in %s", summary.Dir)

	return summary, nil
}

// NewAgent builds the agent described by config for marker. offset varies the
// random seed between games.
func NewAgent(config metrics.AgentConfig, marker game.Marker, offset uint64) agent.Agent {
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(config.Seed + offset)
	default:
		options := []searcher.Option{searcher.WithMetrics()}
		if config.Goroutines > 1 {
			options = append(options, searcher.WithGoroutines(config.Goroutines))
		}
		return agent.NewMinimaxAgent(searcher.NewMinimax(marker, options...))
	}
}

func (s *Summary) add(winner game.Marker) {
	s.Games++
	switch winner {
	case game.PlayerX:
		s.WinsX++
	case game.PlayerO:
		s.WinsO++
	default:
		s.Draws++
	}
}
