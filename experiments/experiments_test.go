package experiments

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"divide/experiments/metrics"
	"divide/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func outputFiles(t *testing.T, dir, name string) []string {
	t.Helper()
	runs, err := os.ReadDir(filepath.Join(dir, name))
	require.NoError(t, err, "experiment folder should exist")
	require.Len(t, runs, 1, "one timestamped run folder")

	entries, err := os.ReadDir(filepath.Join(dir, name, runs[0].Name()))
	require.NoError(t, err, "run folder should be readable")
	files := []string{}
	for _, e := range entries {
		files = append(files, e.Name())
	}
	return files
}

func TestDescribe(t *testing.T) {
	t.Run("empty sample", func(t *testing.T) {
		require.Equal(t, Stats{}, describe(nil), "no values give zero stats")
	})

	t.Run("single sample has no spread", func(t *testing.T) {
		s := describe([]float64{7})
		require.Equal(t, Stats{Count: 1, Mean: 7, Min: 7, Max: 7}, s, "stddev should be zero")
	})

	t.Run("sample statistics", func(t *testing.T) {
		s := describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		require.Equal(t, 8, s.Count, "count")
		require.InDelta(t, 5.0, s.Mean, 1e-9, "mean")
		require.InDelta(t, 2.138, s.StdDev, 1e-3, "unbiased standard deviation")
		require.Equal(t, 2.0, s.Min, "min")
		require.Equal(t, 9.0, s.Max, "max")
	})
}

func TestRandomPositions(t *testing.T) {
	a := RandomPositions(rand.New(rand.NewSource(5)), 100)
	b := RandomPositions(rand.New(rand.NewSource(5)), 100)
	require.Equal(t, a, b, "same seed should give the same positions")

	for _, s := range a {
		require.False(t, s.Terminal(), "positions should not be terminal: %s", s)
		require.LessOrEqual(t, s.Number, 30000, "numbers stay in the opening range")
		require.True(t, s.ToMove.Valid(), "a side should be on move")
	}
}

func TestCompare(t *testing.T) {
	record := Compare(game.State{Number: 24000, ToMove: game.First}, 3)

	require.True(t, record.Equivalent, "both algorithms should agree")
	require.Equal(t, 40, record.Nodes, "a full tree of depth 3 has 40 nodes")
	require.Equal(t, record.MinimaxScore, record.AlphaBetaScore, "root scores")
	require.Equal(t, record.MinimaxMove, record.AlphaBetaMove, "root moves")
	require.LessOrEqual(t, record.AlphaBetaVisits, record.MinimaxVisits, "pruning never visits more nodes")
}

func TestRunComparison(t *testing.T) {
	dir := t.TempDir()
	var report bytes.Buffer
	config := Config{Dir: dir, Goroutines: 4, Positions: 12, MaxDepth: 4, Seed: 7, Report: &report}

	summary, err := RunComparison(context.Background(), config)

	require.NoError(t, err, "comparison should find no disagreement")
	require.Zero(t, summary.Violations, "no violations")
	require.Equal(t, 48, summary.Records, "one record per position and depth")
	require.Len(t, summary.Depths, 4, "one summary per depth")
	require.Equal(t, 4.0, summary.Depths[0].Nodes.Mean, "depth 1 trees are the root and three children")
	require.Zero(t, summary.Depths[0].Cutoffs.Max, "nothing can be pruned at depth 1")
	require.Contains(t, report.String(), "compared 48 trees, 0 violations", "report should summarise the run")
	require.ElementsMatch(t, []string{"comparison_records.csv", "summary.yaml"}, outputFiles(t, dir, "comparison"), "stored files")
}

func TestRunComparisonCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunComparison(ctx, Config{Positions: 3, MaxDepth: 2})

	require.ErrorIs(t, err, context.Canceled, "a cancelled context should stop the run")
}

func TestDefaultMatchUps(t *testing.T) {
	configs := DefaultAgentConfigs(3)
	require.Len(t, configs, 5, "baseline, three alpha-beta depths and one minimax agent")
	require.Equal(t, metrics.RandomAgent, configs[0].Kind, "baseline first")
	require.Equal(t, "minimax", configs[4].Algorithm, "minimax last")

	matchUps := DefaultMatchUps(configs)
	require.Len(t, matchUps, 5, "every searcher against the baseline plus minimax against alpha-beta")
	require.Equal(t, 0, matchUps[0].Agent1.ID, "baseline plays first in its matchups")
	require.Equal(t, MatchUp{Agent1: configs[4], Agent2: configs[3]}, matchUps[4], "equal depth algorithm matchup")
}

func TestRunTournament(t *testing.T) {
	configs := DefaultAgentConfigs(2)
	matchUps := DefaultMatchUps(configs)

	t.Run("records every game", func(t *testing.T) {
		dir := t.TempDir()
		var report bytes.Buffer
		config := Config{Dir: dir, Goroutines: 4, Games: 4, MaxDepth: 2, Seed: 11, Report: &report}

		summary, err := RunTournament(context.Background(), config, configs, matchUps)

		require.NoError(t, err, "tournament should complete")
		require.Len(t, summary.MatchUps, len(matchUps), "one summary per matchup")
		for _, ms := range summary.MatchUps {
			require.Equal(t, 4, ms.Games, "games per matchup")
			require.Equal(t, ms.Games, ms.Agent1Wins+ms.Agent2Wins+ms.Draws, "every game has a result")
			require.Greater(t, ms.Moves.Min, 0.0, "games are never empty")
		}
		require.Contains(t, report.String(), "#0 random vs #1 alphabeta depth 1", "report should list matchups")
		require.ElementsMatch(t,
			[]string{"agent_configs.csv", "game_records.csv", "move_records.csv", "summary.yaml"},
			outputFiles(t, dir, "tournament"), "stored files")
	})

	t.Run("same seed same results", func(t *testing.T) {
		config := Config{Goroutines: 3, Games: 3, MaxDepth: 2, Seed: 3}

		first, err := RunTournament(context.Background(), config, configs, matchUps)
		require.NoError(t, err, "first run")
		second, err := RunTournament(context.Background(), config, configs, matchUps)
		require.NoError(t, err, "second run")

		require.Equal(t, first, second, "results should not depend on scheduling")
	})

	t.Run("unknown agent kind", func(t *testing.T) {
		bad := metrics.AgentConfig{ID: 9, Kind: "oracle"}
		_, err := RunTournament(context.Background(), Config{Games: 1}, []metrics.AgentConfig{bad},
			[]MatchUp{{Agent1: bad, Agent2: configs[0]}})

		require.ErrorContains(t, err, "unknown agent kind", "bad configs should be rejected")
	})
}
