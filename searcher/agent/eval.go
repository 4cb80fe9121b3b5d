package agent

import (
	"divide/experiments/metrics"
	"divide/game"
	"divide/searcher"

	"github.com/rs/zerolog/log"
)

type searchAgent struct {
	searcher *searcher.Searcher
}

// NewSearchAgent returns an agent that always plays the searcher's best move.
func NewSearchAgent(s *searcher.Searcher) Agent {
	return searchAgent{searcher: s}
}

func (a searchAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	decision := a.searcher.FindNextMove(state)
	if decision.Fallback {
		log.Warn().Msgf("%s fell back to a random divisor at number %d", a.searcher.Side(), state.Number)
	}
	return decision.Move, decision.Metric, nil
}

// PlayState returns the searched child position itself.
func (a searchAgent) PlayState(state game.State) (game.State, metrics.SearchMetric, error) {
	decision := a.searcher.FindNextMove(state)
	if decision.Fallback {
		log.Warn().Msgf("%s fell back to a random divisor at number %d", a.searcher.Side(), state.Number)
	}
	return decision.State, decision.Metric, nil
}

// ChooseStart opens with the candidate whose search from the first move
// scores highest. Earlier candidates win ties.
func (a searchAgent) ChooseStart(candidates []int, side game.Side) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	best := candidates[0]
	bestScore := 0.0
	for i, candidate := range candidates {
		score := a.searcher.FindNextMove(game.NewState(candidate, side)).Score
		if i == 0 || score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, nil
}

var _ StatePlayer = searchAgent{}
