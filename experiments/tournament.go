package experiments

import (
	"context"
	"fmt"

	"divide/engine"
	"divide/experiments/metrics"
	"divide/game"
	"divide/searcher"
	"divide/searcher/agent"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// MatchUp pairs two agent configs. Agent1 always plays player1, the opening
// side alternates between games.
type MatchUp struct {
	Agent1 metrics.AgentConfig
	Agent2 metrics.AgentConfig
}

type MatchUpSummary struct {
	Agent1     string `yaml:"agent1"`
	Agent2     string `yaml:"agent2"`
	Games      int    `yaml:"games"`
	Agent1Wins int    `yaml:"agent1_wins"`
	Agent2Wins int    `yaml:"agent2_wins"`
	Draws      int    `yaml:"draws"`
	Moves      Stats  `yaml:"moves"`
	Margin     Stats  `yaml:"margin"` // player1 minus player2
	Fallbacks  int    `yaml:"fallbacks"`
}

type TournamentSummary struct {
	Seed     uint64           `yaml:"seed"`
	MatchUps []MatchUpSummary `yaml:"matchups"`
}

// DefaultAgentConfigs returns a random baseline (ID 0), an alpha-beta agent
// per depth up to maxDepth and a minimax agent at maxDepth.
func DefaultAgentConfigs(maxDepth int) []metrics.AgentConfig {
	configs := []metrics.AgentConfig{{ID: 0, Kind: metrics.RandomAgent}}
	for d := 1; d <= maxDepth; d++ {
		configs = append(configs, metrics.AgentConfig{
			ID: d, Kind: metrics.SearchAgent, Algorithm: searcher.AlphaBeta.String(), Depth: d,
		})
	}
	return append(configs, metrics.AgentConfig{
		ID: maxDepth + 1, Kind: metrics.SearchAgent, Algorithm: searcher.Minimax.String(), Depth: maxDepth,
	})
}

// DefaultMatchUps pairs every search agent against the baseline and the
// deepest minimax agent against the deepest alpha-beta agent.
func DefaultMatchUps(configs []metrics.AgentConfig) []MatchUp {
	baseline, ok := lo.Find(configs, func(c metrics.AgentConfig) bool { return c.Kind == metrics.RandomAgent })
	searchers := lo.Filter(configs, func(c metrics.AgentConfig, _ int) bool { return c.Kind == metrics.SearchAgent })

	matchUps := []MatchUp{}
	if ok {
		for _, config := range searchers {
			matchUps = append(matchUps, MatchUp{Agent1: baseline, Agent2: config})
		}
	}
	if len(searchers) >= 2 {
		last := searchers[len(searchers)-1]
		previous := searchers[len(searchers)-2]
		matchUps = append(matchUps, MatchUp{Agent1: last, Agent2: previous})
	}
	return matchUps
}

func newAgent(config metrics.AgentConfig, side game.Side, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case metrics.RandomAgent:
		return agent.NewRandomAgent(seed), nil
	case metrics.SearchAgent:
		algorithm, err := searcher.ParseAlgorithm(config.Algorithm)
		if err != nil {
			return nil, err
		}
		return agent.NewSearchAgent(searcher.NewSearcher(
			searcher.WithAlgorithm(algorithm),
			searcher.WithDepth(config.Depth),
			searcher.WithSide(side),
			searcher.WithMetrics(),
		)), nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}

type gameResult struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// runGame plays game id of a matchup. Every game derives its candidates and
// random agents from the seed and id only, so results do not depend on
// scheduling.
func runGame(id int, matchUp MatchUp, first game.Side, seed uint64) (gameResult, error) {
	gameSeed := seed + uint64(id)*3
	agent1, err := newAgent(matchUp.Agent1, game.First, gameSeed+1)
	if err != nil {
		return gameResult{}, err
	}
	agent2, err := newAgent(matchUp.Agent2, game.Second, gameSeed+2)
	if err != nil {
		return gameResult{}, err
	}

	candidates := game.GenerateStartingNumbers(rand.New(rand.NewSource(gameSeed)), game.StartCandidates)
	e := engine.NewLocalEngine(map[game.Side]agent.Agent{game.First: agent1, game.Second: agent2}, candidates, first)
	_, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return gameResult{}, fmt.Errorf("game %d between %s and %s: %w", id, matchUp.Agent1, matchUp.Agent2, err)
	}

	return gameResult{
		game: metrics.GameRecord{
			ID:         id,
			Agent1:     matchUp.Agent1.ID,
			Agent2:     matchUp.Agent2.ID,
			GameMetric: gameMetric,
		},
		moves: lo.Map(moveMetrics, func(mm metrics.MoveMetric, _ int) metrics.MoveRecord {
			return metrics.MoveRecord{Game: id, MoveMetric: mm}
		}),
	}, nil
}

// RunTournament plays config.Games games per matchup, records every game and
// move and reports a summary per matchup.
func RunTournament(ctx context.Context, config Config, configs []metrics.AgentConfig, matchUps []MatchUp) (TournamentSummary, error) {
	config = config.withDefaults()

	log.Info().Msgf("starting tournament of %d matchups with %d games each...", len(matchUps), config.Games)

	results := make([]gameResult, len(matchUps)*config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Goroutines)
	for mi, matchUp := range matchUps {
		for i := 0; i < config.Games; i++ {
			i, matchUp := i, matchUp
			idx := mi*config.Games + i
			first := lo.Ternary(i%2 == 0, game.First, game.Second)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := runGame(idx+1, matchUp, first, config.Seed)
				if err != nil {
					return err
				}
				results[idx] = result
				log.Debug().Msgf("completed game %d of matchup %s vs %s, winner: %q",
					i+1, matchUp.Agent1, matchUp.Agent2, result.game.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return TournamentSummary{}, fmt.Errorf("tournament interrupted: %w", err)
	}

	log.Info().Msg("completed tournament")

	gameRecords := lo.Map(results, func(r gameResult, _ int) metrics.GameRecord { return r.game })
	moveRecords := lo.FlatMap(results, func(r gameResult, _ int) []metrics.MoveRecord { return r.moves })
	summary := summarizeTournament(config, matchUps, gameRecords)

	if err := reportTournament(config, summary, moveRecords); err != nil {
		return summary, err
	}
	if config.Dir == "" {
		return summary, nil
	}

	writer, err := metrics.NewWriter(config.Dir, "tournament")
	if err != nil {
		return summary, err
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
	if err := writer.WriteSummary(summary); err != nil {
		return summary, err
	}
	log.Info().Msgf("stored tournament records in %s", writer.Dir())
	return summary, nil
}

func summarizeTournament(config Config, matchUps []MatchUp, records []metrics.GameRecord) TournamentSummary {
	summary := TournamentSummary{Seed: config.Seed}
	for mi, matchUp := range matchUps {
		games := records[mi*config.Games : (mi+1)*config.Games]
		ms := MatchUpSummary{
			Agent1: matchUp.Agent1.String(),
			Agent2: matchUp.Agent2.String(),
			Games:  len(games),
			Agent1Wins: lo.CountBy(games, func(r metrics.GameRecord) bool {
				return r.Winner == game.First.String()
			}),
			Agent2Wins: lo.CountBy(games, func(r metrics.GameRecord) bool {
				return r.Winner == game.Second.String()
			}),
			Draws: lo.CountBy(games, func(r metrics.GameRecord) bool { return r.Winner == "" }),
			Moves: describe(lo.Map(games, func(r metrics.GameRecord, _ int) float64 {
				return float64(r.TotalMoves)
			})),
			Margin: describe(lo.Map(games, func(r metrics.GameRecord, _ int) float64 {
				return float64(r.ScoreFirst - r.ScoreSecond)
			})),
			Fallbacks: lo.SumBy(games, func(r metrics.GameRecord) int { return r.Fallbacks }),
		}
		summary.MatchUps = append(summary.MatchUps, ms)
	}
	return summary
}

func reportTournament(config Config, summary TournamentSummary, moves []metrics.MoveRecord) error {
	w := config.Report
	for _, ms := range summary.MatchUps {
		fmt.Fprintf(w, "%s vs %s: %d-%d with %d draws over %d games, margin %s\n",
			ms.Agent1, ms.Agent2, ms.Agent1Wins, ms.Agent2Wins, ms.Draws, ms.Games, ms.Margin)
	}

	searched := lo.Filter(moves, func(m metrics.MoveRecord, _ int) bool { return m.Algorithm != "random" })
	durations := lo.Map(searched, func(m metrics.MoveRecord, _ int) float64 { return micros(m.Duration) })
	return printHistogram(w, "search time per move (µs):", durations)
}
