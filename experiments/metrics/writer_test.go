package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "csv file should exist")
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "csv file should parse")
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "unit")
	require.NoError(t, err, "writer should create its directory")
	require.DirExists(t, w.Dir(), "base directory should exist")
	require.Equal(t, filepath.Join(root, "unit"), filepath.Dir(w.Dir()), "base directory should be under the experiment name")

	t.Run("agent configs", func(t *testing.T) {
		configs := []AgentConfig{
			{ID: 0, Kind: RandomAgent},
			{ID: 1, Kind: SearchAgent, Algorithm: "alphabeta", Depth: 3},
		}
		require.NoError(t, w.WriteAgentConfigs(configs), "configs should be written")

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3, "header plus one row per config")
		require.Equal(t, []string{"id", "kind", "algorithm", "depth"}, rows[0], "header")
		require.Equal(t, []string{"1", "search", "alphabeta", "3"}, rows[2], "search config row")
	})

	t.Run("game and move records", func(t *testing.T) {
		games := []GameRecord{{ID: 1, Agent1: 0, Agent2: 1, GameMetric: GameMetric{
			StartingPlayer: 2, StartNumber: 24000, Winner: "player2", ScoreFirst: -1, ScoreSecond: 3,
			TotalMoves: 6, Duration: time.Millisecond,
		}}}
		moves := []MoveRecord{{Game: 1, MoveMetric: MoveMetric{
			Step: 1, Player: 2, Move: 4, Number: 6000,
			SearchMetric: SearchMetric{Algorithm: "alphabeta", Depth: 3, Nodes: 40, Score: 12.5},
		}}}
		require.NoError(t, w.WriteGameRecords(games), "game records should be written")
		require.NoError(t, w.WriteMoveRecords(moves), "move records should be written")

		gameRows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, gameRows, 2, "header plus one game")
		require.Equal(t, "24000", gameRows[1][4], "start number column")
		require.Equal(t, "player2", gameRows[1][5], "winner column")

		moveRows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, moveRows, 2, "header plus one move")
		require.Equal(t, "6000", moveRows[1][4], "number column")
		require.Equal(t, "12.5", moveRows[1][11], "score column")
	})

	t.Run("comparison records", func(t *testing.T) {
		records := []ComparisonRecord{{Position: 3, Depth: 2, Number: 120, Equivalent: true}}
		require.NoError(t, w.WriteComparisonRecords(records), "comparison records should be written")

		rows := readCSV(t, filepath.Join(w.Dir(), "comparison_records.csv"))
		require.Len(t, rows, 2, "header plus one record")
		require.Equal(t, "true", rows[1][14], "equivalent column")
	})

	t.Run("summary", func(t *testing.T) {
		summary := map[string]int{"violations": 0, "records": 4}
		require.NoError(t, w.WriteSummary(summary), "summary should be written")

		data, err := os.ReadFile(filepath.Join(w.Dir(), "summary.yaml"))
		require.NoError(t, err, "summary file should exist")
		var decoded map[string]int
		require.NoError(t, yaml.Unmarshal(data, &decoded), "summary should be valid yaml")
		require.Equal(t, summary, decoded, "summary should round trip")
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start("minimax", 3)
	c.AddNodes(40)
	c.AddVisits(40)
	c.AddCutoffs(2)
	c.SetScore(-127.5)

	m := c.Complete()
	require.Equal(t, "minimax", m.Algorithm, "algorithm")
	require.Equal(t, 3, m.Depth, "depth")
	require.Equal(t, 40, m.Nodes, "nodes")
	require.Equal(t, 40, m.Visits, "visits")
	require.Equal(t, 2, m.Cutoffs, "cutoffs")
	require.Equal(t, -127.5, m.Score, "score")
	require.False(t, m.Fallback, "no fallback was marked")

	c.Start("alphabeta", 1)
	c.MarkFallback()
	m = c.Complete()
	require.Zero(t, m.Nodes, "start should reset counters")
	require.True(t, m.Fallback, "fallback was marked")

	require.Equal(t, SearchMetric{}, NewDummyCollector().Complete(), "dummy collector records nothing")
}
