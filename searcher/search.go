package searcher

import (
	"fmt"
	"time"

	"divide/experiments/metrics"
	"divide/game"
	"divide/meta"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

type Option func(s *Searcher)

// Searcher picks moves for one side by generating the game tree to a fixed
// depth and searching it.
type Searcher struct {
	algorithm  Algorithm
	depth      int
	side       game.Side
	evaluate   game.Evaluator
	metrics    metrics.Collector
	randomMove func() game.Move
}

// Decision is the outcome of one search.
type Decision struct {
	Move     game.Move
	State    game.State // Position after Move, the new authoritative state
	Score    float64    // Root score from the searching side's perspective
	Line     []game.Move
	Elapsed  time.Duration
	Fallback bool // No best move was found and Move was drawn at random
	Metric   metrics.SearchMetric
}

func WithAlgorithm(algorithm Algorithm) Option {
	return func(s *Searcher) {
		s.algorithm = algorithm
	}
}

// WithDepth sets the search depth. Depth 0 generates a lone root, so every
// search falls back to a random divisor. Negative depths are ignored.
func WithDepth(depth int) Option {
	return func(s *Searcher) {
		if depth >= 0 {
			s.depth = depth
		}
	}
}

func WithSide(side game.Side) Option {
	return func(s *Searcher) {
		if side.Valid() {
			s.side = side
		}
	}
}

func WithEvaluator(evaluate game.Evaluator) Option {
	return func(s *Searcher) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

// WithRandomMove replaces the source of fallback moves.
func WithRandomMove(random func() game.Move) Option {
	return func(s *Searcher) {
		if random != nil {
			s.randomMove = random
		}
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		algorithm:  AlgorithmFor(meta.USE_ALPHA_BETA),
		depth:      meta.MAX_DEPTH,
		side:       game.Second,
		evaluate:   game.EvaluatePosition,
		metrics:    metrics.NewDummyCollector(),
		randomMove: uniformMove,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Searcher) Side() game.Side {
	return s.side
}

func (s *Searcher) Algorithm() Algorithm {
	return s.algorithm
}

func (s *Searcher) Depth() int {
	return s.depth
}

// FindNextMove searches from state with this searcher's side on move and
// returns the best child position. If the search recorded no best child the
// move is drawn at random and the decision is flagged as a fallback.
func (s *Searcher) FindNextMove(state game.State) Decision {
	root := state
	root.ToMove = s.side

	s.metrics.Start(s.algorithm.String(), s.depth)
	start := time.Now()

	tree := Generate(root, s.depth, s.side, s.evaluate)
	score := tree.Search(s.algorithm, s.depth)
	elapsed := time.Since(start)

	s.metrics.AddNodes(tree.Len())
	s.metrics.AddVisits(tree.Visits())
	s.metrics.AddCutoffs(tree.Cutoffs())

	best, ok := tree.BestChild(Root)
	if !ok {
		return s.fallback(root)
	}

	s.metrics.SetScore(score)
	log.Debug().
		Str("algorithm", s.algorithm.String()).
		Int("depth", s.depth).
		Int("number", root.Number).
		Int("move", int(best.Move)).
		Float64("score", score).
		Int("nodes", tree.Len()).
		Int("cutoffs", tree.Cutoffs()).
		Dur("elapsed", elapsed).
		Msg("search complete")

	return Decision{
		Move:    best.Move,
		State:   best.State,
		Score:   score,
		Line:    tree.PrincipalVariation(),
		Elapsed: elapsed,
		Metric:  s.metrics.Complete(),
	}
}

func (s *Searcher) fallback(state game.State) Decision {
	move := s.randomMove()
	log.Warn().Msgf("search from number %d at depth %d recorded no best move, playing random divisor %d",
		state.Number, s.depth, move)

	s.metrics.MarkFallback()
	return Decision{
		Move:     move,
		State:    state.Play(move),
		Fallback: true,
		Metric:   s.metrics.Complete(),
	}
}

func uniformMove() game.Move {
	return game.Moves[frand.Intn(len(game.Moves))]
}

// ChooseMove searches for the side on move in state and returns the new
// state with the time spent generating and searching the tree. A maxDepth of
// 0 plays a random divisor with zero elapsed time. It panics if no valid side
// is on move or maxDepth is negative.
func ChooseMove(state game.State, useAlphaBeta bool, maxDepth int) (game.State, time.Duration) {
	if !state.ToMove.Valid() {
		panic(fmt.Sprintf("no side on move in %s", state))
	}
	if maxDepth < 0 {
		panic(fmt.Sprintf("negative search depth %d", maxDepth))
	}
	s := NewSearcher(
		WithAlgorithm(AlgorithmFor(useAlphaBeta)),
		WithDepth(maxDepth),
		WithSide(state.ToMove),
	)
	decision := s.FindNextMove(state)
	return decision.State, decision.Elapsed
}
