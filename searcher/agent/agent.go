package agent

import (
	"errors"

	"divide/experiments/metrics"
	"divide/game"
)

var ErrNoCandidates = errors.New("no starting numbers to choose from")

type Agent interface {
	// ChooseStart picks the opening number when side moves first
	ChooseStart(candidates []int, side game.Side) (int, error)
	// FindMove returns a divisor and performance metrics (if collected) from the search
	FindMove(state game.State) (game.Move, metrics.SearchMetric, error)
}

// StatePlayer is implemented by agents that answer with the position after
// their move. The engine accepts that position only if a single legal divisor
// reaches it.
type StatePlayer interface {
	PlayState(state game.State) (game.State, metrics.SearchMetric, error)
}
