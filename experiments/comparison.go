package experiments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"divide/experiments/metrics"
	"divide/game"
	"divide/searcher"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

var ErrNotEquivalent = errors.New("minimax and alpha-beta disagree")

type DepthSummary struct {
	Depth            int     `yaml:"depth"`
	Nodes            Stats   `yaml:"nodes"`
	MinimaxVisits    Stats   `yaml:"minimax_visits"`
	AlphaBetaVisits  Stats   `yaml:"alphabeta_visits"`
	Cutoffs          Stats   `yaml:"cutoffs"`
	MinimaxMicros    Stats   `yaml:"minimax_micros"`
	AlphaBetaMicros  Stats   `yaml:"alphabeta_micros"`
	VisitsSavedRatio float64 `yaml:"visits_saved_ratio"`
}

type ComparisonSummary struct {
	Seed       uint64         `yaml:"seed"`
	Positions  int            `yaml:"positions"`
	Records    int            `yaml:"records"`
	Violations int            `yaml:"violations"`
	Depths     []DepthSummary `yaml:"depths"`
}

// RandomPositions draws n non-terminal states reachable in shape from play:
// any number above the terminal bound, small scores and bank, either side on move.
func RandomPositions(r *rand.Rand, n int) []game.State {
	states := make([]game.State, n)
	for i := range states {
		states[i] = game.State{
			Number:      game.TerminalNumber + 1 + r.Intn(30000-game.TerminalNumber),
			ScoreFirst:  r.Intn(11) - 5,
			ScoreSecond: r.Intn(11) - 5,
			Bank:        r.Intn(6),
			ToMove:      game.Side(1 + r.Intn(2)),
		}
	}
	return states
}

// Compare searches the same tree with both algorithms for the side on move.
func Compare(state game.State, depth int) metrics.ComparisonRecord {
	run := func(algorithm searcher.Algorithm) (*searcher.Tree, float64, time.Duration) {
		start := time.Now()
		tree := searcher.Generate(state, depth, state.ToMove, game.EvaluatePosition)
		score := tree.Search(algorithm, depth)
		return tree, score, time.Since(start)
	}
	bestMove := func(tree *searcher.Tree) int {
		if best, ok := tree.BestChild(searcher.Root); ok {
			return int(best.Move)
		}
		return 0
	}

	mmTree, mmScore, mmElapsed := run(searcher.Minimax)
	abTree, abScore, abElapsed := run(searcher.AlphaBeta)

	record := metrics.ComparisonRecord{
		Depth:             depth,
		Number:            state.Number,
		ToMove:            int(state.ToMove),
		Nodes:             mmTree.Len(),
		MinimaxScore:      mmScore,
		AlphaBetaScore:    abScore,
		MinimaxMove:       bestMove(mmTree),
		AlphaBetaMove:     bestMove(abTree),
		MinimaxVisits:     mmTree.Visits(),
		AlphaBetaVisits:   abTree.Visits(),
		Cutoffs:           abTree.Cutoffs(),
		MinimaxDuration:   mmElapsed,
		AlphaBetaDuration: abElapsed,
	}
	record.Equivalent = record.MinimaxScore == record.AlphaBetaScore && record.MinimaxMove == record.AlphaBetaMove
	return record
}

// RunComparison checks minimax against alpha-beta on random positions at
// every depth up to MaxDepth. Any disagreement is reported as ErrNotEquivalent
// after the records are stored.
func RunComparison(ctx context.Context, config Config) (ComparisonSummary, error) {
	config = config.withDefaults()
	positions := RandomPositions(rand.New(rand.NewSource(config.Seed)), config.Positions)

	log.Info().Msgf("starting comparison of %d positions up to depth %d...", len(positions), config.MaxDepth)

	records := make([]metrics.ComparisonRecord, config.MaxDepth*len(positions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Goroutines)
	for d := 1; d <= config.MaxDepth; d++ {
		for p, state := range positions {
			d, p, state := d, p, state
			idx := (d-1)*len(positions) + p
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				record := Compare(state, d)
				record.Position = p
				records[idx] = record
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return ComparisonSummary{}, fmt.Errorf("comparison interrupted: %w", err)
	}

	summary := summarizeComparison(config, records)
	log.Info().Msgf("completed comparison with %d violations", summary.Violations)

	if err := reportComparison(config, summary, records); err != nil {
		return summary, err
	}
	if config.Dir != "" {
		writer, err := metrics.NewWriter(config.Dir, "comparison")
		if err != nil {
			return summary, err
		}
		if err := writer.WriteComparisonRecords(records); err != nil {
			return summary, err
		}
		if err := writer.WriteSummary(summary); err != nil {
			return summary, err
		}
		log.Info().Msgf("stored comparison records in %s", writer.Dir())
	}

	if summary.Violations > 0 {
		return summary, fmt.Errorf("%w on %d of %d trees", ErrNotEquivalent, summary.Violations, summary.Records)
	}
	return summary, nil
}

func summarizeComparison(config Config, records []metrics.ComparisonRecord) ComparisonSummary {
	summary := ComparisonSummary{
		Seed:      config.Seed,
		Positions: config.Positions,
		Records:   len(records),
		Violations: lo.CountBy(records, func(r metrics.ComparisonRecord) bool {
			return !r.Equivalent
		}),
	}

	byDepth := lo.GroupBy(records, func(r metrics.ComparisonRecord) int { return r.Depth })
	for d := 1; d <= config.MaxDepth; d++ {
		rs := byDepth[d]
		floatsOf := func(f func(metrics.ComparisonRecord) float64) []float64 {
			return lo.Map(rs, func(r metrics.ComparisonRecord, _ int) float64 { return f(r) })
		}
		ds := DepthSummary{
			Depth:           d,
			Nodes:           describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return float64(r.Nodes) })),
			MinimaxVisits:   describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return float64(r.MinimaxVisits) })),
			AlphaBetaVisits: describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return float64(r.AlphaBetaVisits) })),
			Cutoffs:         describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return float64(r.Cutoffs) })),
			MinimaxMicros:   describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return micros(r.MinimaxDuration) })),
			AlphaBetaMicros: describe(floatsOf(func(r metrics.ComparisonRecord) float64 { return micros(r.AlphaBetaDuration) })),
		}
		if ds.MinimaxVisits.Mean > 0 {
			ds.VisitsSavedRatio = 1 - ds.AlphaBetaVisits.Mean/ds.MinimaxVisits.Mean
		}
		summary.Depths = append(summary.Depths, ds)
	}
	return summary
}

func reportComparison(config Config, summary ComparisonSummary, records []metrics.ComparisonRecord) error {
	w := config.Report
	fmt.Fprintf(w, "compared %d trees, %d violations\n", summary.Records, summary.Violations)
	for _, ds := range summary.Depths {
		fmt.Fprintf(w, "depth %d: minimax visits %s\n", ds.Depth, ds.MinimaxVisits)
		fmt.Fprintf(w, "depth %d: alphabeta visits %s (%.0f%% saved)\n", ds.Depth, ds.AlphaBetaVisits, 100*ds.VisitsSavedRatio)
	}

	deepest := lo.Filter(records, func(r metrics.ComparisonRecord, _ int) bool { return r.Depth == config.MaxDepth })
	durations := lo.Map(deepest, func(r metrics.ComparisonRecord, _ int) float64 { return micros(r.AlphaBetaDuration) })
	return printHistogram(w, fmt.Sprintf("alphabeta search time at depth %d (µs):", config.MaxDepth), durations)
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
