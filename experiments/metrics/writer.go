package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	SearchAgent = "search"
	RandomAgent = "random"
)

type AgentConfig struct {
	ID        int    `yaml:"id"`
	Kind      string `yaml:"kind"`
	Algorithm string `yaml:"algorithm,omitempty"`
	Depth     int    `yaml:"depth,omitempty"`
}

func (c AgentConfig) String() string {
	if c.Kind == RandomAgent {
		return fmt.Sprintf("#%d random", c.ID)
	}
	return fmt.Sprintf("#%d %s depth %d", c.ID, c.Algorithm, c.Depth)
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing player1
	Agent2 int // AgentConfig.ID playing player2
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// ComparisonRecord holds both searches of the same tree.
type ComparisonRecord struct {
	Position          int
	Depth             int
	Number            int
	ToMove            int
	Nodes             int
	MinimaxScore      float64
	AlphaBetaScore    float64
	MinimaxMove       int
	AlphaBetaMove     int
	MinimaxVisits     int
	AlphaBetaVisits   int
	Cutoffs           int
	MinimaxDuration   time.Duration
	AlphaBetaDuration time.Duration
	Equivalent        bool
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named after the experiment and the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeCSV(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	err = writer.WriteAll(rows) // Flushes
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "algorithm", "depth"}
	rows := lo.Map(configs, func(config AgentConfig, _ int) []string {
		return []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Algorithm,
			strconv.Itoa(config.Depth),
		}
	})
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "start_number", "winner",
		"score_player1", "score_player2", "total_moves", "fallbacks", "start_time", "end_time", "duration"}
	rows := lo.Map(records, func(record GameRecord, _ int) []string {
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.StartNumber),
			record.Winner,
			strconv.Itoa(record.ScoreFirst),
			strconv.Itoa(record.ScoreSecond),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Fallbacks),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	})
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "number", "algorithm", "depth",
		"duration", "nodes", "visits", "cutoffs", "score", "fallback"}
	rows := lo.Map(records, func(record MoveRecord, _ int) []string {
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			strconv.Itoa(record.Move),
			strconv.Itoa(record.Number),
			record.Algorithm,
			strconv.Itoa(record.Depth),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Visits),
			strconv.Itoa(record.Cutoffs),
			strconv.FormatFloat(record.Score, 'f', -1, 64),
			strconv.FormatBool(record.Fallback),
		}
	})
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) WriteComparisonRecords(records []ComparisonRecord) error {
	header := []string{"position", "depth", "number", "to_move", "nodes",
		"minimax_score", "alphabeta_score", "minimax_move", "alphabeta_move",
		"minimax_visits", "alphabeta_visits", "cutoffs",
		"minimax_duration", "alphabeta_duration", "equivalent"}
	rows := lo.Map(records, func(record ComparisonRecord, _ int) []string {
		return []string{
			strconv.Itoa(record.Position),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Number),
			strconv.Itoa(record.ToMove),
			strconv.Itoa(record.Nodes),
			strconv.FormatFloat(record.MinimaxScore, 'f', -1, 64),
			strconv.FormatFloat(record.AlphaBetaScore, 'f', -1, 64),
			strconv.Itoa(record.MinimaxMove),
			strconv.Itoa(record.AlphaBetaMove),
			strconv.Itoa(record.MinimaxVisits),
			strconv.Itoa(record.AlphaBetaVisits),
			strconv.Itoa(record.Cutoffs),
			record.MinimaxDuration.String(),
			record.AlphaBetaDuration.String(),
			strconv.FormatBool(record.Equivalent),
		}
	})
	return w.writeCSV("comparison_records.csv", header, rows)
}

// WriteSummary stores v as summary.yaml.
func (w *Writer) WriteSummary(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "summary.yaml"), out, 0644)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
