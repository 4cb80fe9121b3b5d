package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"divide/config"
	"divide/engine"
	"divide/experiments"
	"divide/game"
	"divide/player"
	"divide/searcher"
	"divide/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/exp/rand"
)

func main() {
	var cfg config.Config
	err := cfg.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug().Uint64("seed", seed).Msg("loaded config")

	expConfig := experiments.Config{
		Dir:        cfg.Out,
		Goroutines: cfg.Goroutines,
		Games:      cfg.Games,
		Positions:  cfg.Positions,
		MaxDepth:   cfg.Depth,
		Seed:       seed,
		Report:     os.Stdout,
	}

	switch cfg.Experiment {
	case config.ExperimentComparison:
		_, err := experiments.RunComparison(ctx, expConfig)
		return err
	case config.ExperimentTournament:
		configs := experiments.DefaultAgentConfigs(cfg.Depth)
		_, err := experiments.RunTournament(ctx, expConfig, configs, experiments.DefaultMatchUps(configs))
		return err
	}

	return play(cfg, seed)
}

// play runs one game between the engine and a human at the terminal.
// player1 picks the starting number and moves first.
func play(cfg config.Config, seed uint64) error {
	engineSide := cfg.Side()
	humanSide := engineSide.Opponent()

	human, closeTerminal, err := player.NewTerminalHuman(humanSide, cfg.HistoryFile)
	if err != nil {
		return err
	}
	defer closeTerminal()

	computer := agent.NewSearchAgent(searcher.NewSearcher(
		searcher.WithAlgorithm(searcher.AlgorithmFor(cfg.AlphaBeta)),
		searcher.WithDepth(cfg.Depth),
		searcher.WithSide(engineSide),
		searcher.WithMetrics(),
	))

	candidates := game.GenerateStartingNumbers(rand.New(rand.NewSource(seed)), cfg.Candidates)
	agents := map[game.Side]agent.Agent{engineSide: computer, humanSide: human}
	fmt.Printf("You are %s, the engine is %s searching %d plies with %s.\n",
		humanSide, engineSide, cfg.Depth, searcher.AlgorithmFor(cfg.AlphaBeta))

	e := engine.NewLocalEngine(agents, candidates, game.First, engine.WithOutput(os.Stdout))
	_, gameMetric, moveMetrics, err := e.Run()
	if errors.Is(err, player.ErrQuit) {
		fmt.Println("Bye.")
		return nil
	}
	if err != nil {
		return err
	}

	var thinking time.Duration
	for _, m := range moveMetrics {
		if m.Player == int(engineSide) {
			thinking += m.Duration
		}
	}
	log.Info().Msgf("game took %s, the engine spent %s searching", gameMetric.Duration, thinking)
	return nil
}
