package agent

import (
	"sync"

	"divide/experiments/metrics"
	"divide/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays uniformly random
// divisors. The same seed replays the same choices.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{r: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	move := game.Moves[a.r.Intn(len(game.Moves))]
	return move, metrics.SearchMetric{Algorithm: "random"}, nil
}

func (a *randomAgent) ChooseStart(candidates []int, side game.Side) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return candidates[a.r.Intn(len(candidates))], nil
}
