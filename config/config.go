package config

import (
	"errors"
	"fmt"
	"strings"

	"divide/game"
	"divide/meta"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "DIVIDE"

// MaxCandidates bounds the starting numbers offered in one game.
const MaxCandidates = 50

const (
	ExperimentNone       = ""
	ExperimentComparison = "comparison"
	ExperimentTournament = "tournament"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ConfigFile  string
	AlphaBeta   bool
	Depth       int
	EngineSide  string
	Seed        uint64
	Candidates  int
	LogLevel    string
	HistoryFile string

	Experiment string
	Games      int
	Positions  int
	Goroutines int
	Out        string
}

// Load reads flags from args, then DIVIDE_* environment variables, then the
// YAML file named by --config. Explicit flags win over the environment, which
// wins over the file and the defaults.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("divide", pflag.ContinueOnError)
	fs.String("config", "", "YAML file with any of the settings below")
	fs.Bool("alphabeta", meta.USE_ALPHA_BETA, "search with alpha-beta pruning instead of plain minimax")
	fs.Int("depth", meta.MAX_DEPTH, "search depth in plies")
	fs.String("engine-side", meta.ENGINE_SIDE, "which player the engine plays: first or second")
	fs.Uint64("seed", 0, "seed for starting numbers and experiments, 0 picks one from the clock")
	fs.Int("candidates", game.StartCandidates, "starting numbers offered to the first player")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.String("history-file", "", "readline history file")
	fs.String("experiment", ExperimentNone, "run an experiment instead of a game: comparison or tournament")
	fs.Int("games", meta.NUM_GAMES, "games per tournament matchup")
	fs.Int("positions", meta.NUM_POSITIONS, "random positions per depth in the comparison")
	fs.Int("goroutines", meta.GO_ROUTINES, "experiment games or positions run at once")
	fs.String("out", "experiments", "folder for experiment records, empty to skip writing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	c.ConfigFile = v.GetString("config")
	c.AlphaBeta = v.GetBool("alphabeta")
	c.Depth = v.GetInt("depth")
	c.EngineSide = v.GetString("engine-side")
	c.Seed = v.GetUint64("seed")
	c.Candidates = v.GetInt("candidates")
	c.LogLevel = v.GetString("log-level")
	c.HistoryFile = v.GetString("history-file")
	c.Experiment = strings.ToLower(v.GetString("experiment"))
	c.Games = v.GetInt("games")
	c.Positions = v.GetInt("positions")
	c.Goroutines = v.GetInt("goroutines")
	c.Out = v.GetString("out")

	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Depth < meta.MIN_DEPTH || c.Depth > meta.DEPTH_LIMIT {
		return fmt.Errorf("%w: depth %d is outside [%d, %d]", ErrInvalidConfig, c.Depth, meta.MIN_DEPTH, meta.DEPTH_LIMIT)
	}
	if _, err := game.ParseSide(c.EngineSide); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Candidates < 1 || c.Candidates > MaxCandidates {
		return fmt.Errorf("%w: %d candidates", ErrInvalidConfig, c.Candidates)
	}
	switch c.Experiment {
	case ExperimentNone, ExperimentComparison, ExperimentTournament:
	default:
		return fmt.Errorf("%w: unknown experiment %q", ErrInvalidConfig, c.Experiment)
	}
	if c.Games < 1 || c.Positions < 1 || c.Goroutines < 1 {
		return fmt.Errorf("%w: games, positions and goroutines must be positive", ErrInvalidConfig)
	}
	return nil
}

// Side is the player the engine plays. Only valid after Validate.
func (c *Config) Side() game.Side {
	side, _ := game.ParseSide(c.EngineSide)
	return side
}

func (c *Config) Level() zerolog.Level {
	level, _ := zerolog.ParseLevel(c.LogLevel)
	return level
}
