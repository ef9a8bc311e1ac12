package experiments

import (
	"os"
	"path/filepath"
	"testing"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("optimal against random never loses", func(t *testing.T) {
		summary, err := Run("unit", DefaultConfigs(), []MatchUp{{X: optimalAgent, O: randomAgent, First: game.PlayerX}}, 3, "")
		require.NoError(t, err)
		require.Equal(t, 3, summary.Games)
		require.Zero(t, summary.WinsO, "Random O should never win")

		summary, err = Run("unit", DefaultConfigs(), []MatchUp{{X: randomAgent, O: optimalAgent, First: game.PlayerX}}, 3, "")
		require.NoError(t, err)
		require.Equal(t, 3, summary.WinsX+summary.WinsO+summary.Draws)
		require.Zero(t, summary.WinsX, "Random X should never win")
		require.Empty(t, summary.Dir, "Nothing should be written without a directory")
	})

	t.Run("writing records", func(t *testing.T) {
		dir := t.TempDir()
		matchUps := []MatchUp{{X: optimalAgent, O: parallelAgent, First: game.PlayerX}}

		summary, err := Run("draws", DefaultConfigs(), matchUps, 1, dir)

		require.NoError(t, err)
		require.Equal(t, Summary{Games: 1, Draws: 1, Dir: summary.Dir}, summary, "Optimal agents should draw")
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(summary.Dir, name))
			require.NoError(t, err, "Should write %s", name)
		}
	})
}

func TestNewAgent(t *testing.T) {
	b, err := game.ParseBoard("OO.XX....")
	require.NoError(t, err)

	a := NewAgent(metrics.AgentConfig{Kind: KindMinimax, Goroutines: 2}, game.PlayerO, 0)
	got, _, err := a.FindMove(b, game.PlayerO)
	require.NoError(t, err)
	require.Equal(t, 2, got, "Minimax agent should complete the top row")

	a = NewAgent(metrics.AgentConfig{Kind: KindRandom, Seed: 3}, game.PlayerO, 1)
	got, _, err = a.FindMove(b, game.PlayerO)
	require.NoError(t, err)
	require.Contains(t, b.Available(), got)
}
