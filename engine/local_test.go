package engine

import (
	"bytes"
	"errors"
	"testing"

	"divide/experiments/metrics"
	"divide/game"
	"divide/gamemaster"
	"divide/searcher"
	"divide/searcher/agent"

	"github.com/stretchr/testify/require"
)

// scriptedAgent replays fixed choices.
type scriptedAgent struct {
	start int
	moves []game.Move
	err   error
}

func (a *scriptedAgent) ChooseStart(candidates []int, side game.Side) (int, error) {
	return a.start, a.err
}

func (a *scriptedAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	if a.err != nil {
		return 0, metrics.SearchMetric{}, a.err
	}
	move := a.moves[0]
	a.moves = a.moves[1:]
	return move, metrics.SearchMetric{Algorithm: "scripted"}, nil
}

// stateAgent answers with positions instead of divisors.
type stateAgent struct {
	scriptedAgent
	next func(game.State) game.State
}

func (a *stateAgent) PlayState(state game.State) (game.State, metrics.SearchMetric, error) {
	return a.next(state), metrics.SearchMetric{Algorithm: "state"}, nil
}

func searchAgent(side game.Side, algorithm searcher.Algorithm, depth int) agent.Agent {
	return agent.NewSearchAgent(searcher.NewSearcher(
		searcher.WithSide(side),
		searcher.WithAlgorithm(algorithm),
		searcher.WithDepth(depth),
		searcher.WithMetrics(),
	))
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("scripted game settles the bank on the stuck player", func(t *testing.T) {
		agents := map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{start: 24000, moves: []game.Move{4, 4, 4}},
			game.Second: &scriptedAgent{moves: []game.Move{4, 4, 4}},
		}
		var out bytes.Buffer
		e := NewLocalEngine(agents, []int{24000}, game.First, WithOutput(&out))

		outcome, gameMetric, moveMetrics, err := e.Run()

		// 6000 (p1 -1, bank 1), 1500 (p2 -1, bank 2), 375 (p1 0, bank 3),
		// 94 (p2 -2), 24 (p1 -1), 6 (p2 -3), player1 is stuck
		require.NoError(t, err, "Game should finish")
		require.Equal(t, game.First, outcome.BankTo, "Player 1 is stuck on move")
		require.Equal(t, 2, outcome.Final.ScoreFirst, "Player 1 collects a bank of 3")
		require.Equal(t, -3, outcome.Final.ScoreSecond, "Player 2 keeps its score")
		require.Equal(t, game.First, outcome.Winner, "Player 1 should win")
		require.Equal(t, 6, gameMetric.TotalMoves, "Six moves reach 6")
		require.Equal(t, 24000, gameMetric.StartNumber, "Start should be recorded")
		require.Equal(t, "player1", gameMetric.Winner, "Winner should be recorded")
		require.Len(t, moveMetrics, 6, "One metric per move")
		require.Equal(t, 1, moveMetrics[0].Player, "First move by player 1")
		require.Equal(t, 6000, moveMetrics[0].Number, "Number after the first move")
		require.Contains(t, out.String(), "player1 chose 24000", "Opening should be announced")
		require.Contains(t, out.String(), "player1 wins", "Result should be announced")
	})

	t.Run("search agents play a full game", func(t *testing.T) {
		for _, algorithm := range []searcher.Algorithm{searcher.Minimax, searcher.AlphaBeta} {
			agents := map[game.Side]agent.Agent{
				game.First:  searchAgent(game.First, algorithm, 3),
				game.Second: searchAgent(game.Second, algorithm, 3),
			}
			e := NewLocalEngine(agents, []int{20004, 25200, 29988}, game.First)

			outcome, gameMetric, moveMetrics, err := e.Run()

			require.NoError(t, err, "Game should finish")
			require.True(t, outcome.Final.Terminal(), "Game should end stuck")
			require.Len(t, e.Session.History(), gameMetric.TotalMoves, "History should hold every move")
			require.Zero(t, gameMetric.Fallbacks, "Search should never fall back")
			for _, m := range moveMetrics {
				require.Equal(t, algorithm.String(), m.Algorithm, "Every move should be searched")
				require.Positive(t, m.Nodes, "Every search should generate nodes")
			}
		}
	})

	t.Run("minimax and alpha-beta play identical games", func(t *testing.T) {
		play := func(algorithm searcher.Algorithm) []gamemaster.Record {
			agents := map[game.Side]agent.Agent{
				game.First:  searchAgent(game.First, algorithm, 4),
				game.Second: searchAgent(game.Second, algorithm, 4),
			}
			e := NewLocalEngine(agents, []int{22008, 27000}, game.Second)
			_, _, _, err := e.Run()
			require.NoError(t, err, "Game should finish")
			return e.Session.History()
		}

		require.Equal(t, play(searcher.Minimax), play(searcher.AlphaBeta), "Same moves should be chosen")
	})

	t.Run("agent errors stop the game", func(t *testing.T) {
		boom := errors.New("boom")
		agents := map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{start: 24000, moves: []game.Move{2}},
			game.Second: &scriptedAgent{err: boom},
		}

		_, _, moveMetrics, err := NewLocalEngine(agents, []int{24000}, game.First).Run()

		require.ErrorIs(t, err, boom, "Agent error should be returned")
		require.Len(t, moveMetrics, 1, "Moves before the error should be kept")
	})

	t.Run("illegal moves stop the game", func(t *testing.T) {
		agents := map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{start: 24000, moves: []game.Move{5}},
			game.Second: &scriptedAgent{},
		}

		_, _, _, err := NewLocalEngine(agents, []int{24000}, game.First).Run()

		require.ErrorIs(t, err, gamemaster.ErrInvalidMove, "Illegal divisor should be rejected")
	})

	t.Run("positions from a state player are accepted", func(t *testing.T) {
		byFour := &stateAgent{
			scriptedAgent: scriptedAgent{start: 24000},
			next:          func(s game.State) game.State { return s.Play(4) },
		}
		agents := map[game.Side]agent.Agent{
			game.First:  byFour,
			game.Second: &scriptedAgent{moves: []game.Move{4, 4, 4}},
		}
		e := NewLocalEngine(agents, []int{24000}, game.First)

		outcome, _, moveMetrics, err := e.Run()

		require.NoError(t, err, "Reachable positions should be accepted")
		require.Equal(t, game.First, outcome.Winner, "Same game as dividing by 4 throughout")
		require.Equal(t, 4, moveMetrics[0].Move, "The divisor behind the position should be recovered")
		require.Equal(t, "state", moveMetrics[0].Algorithm, "Metrics should come from the state player")
		require.Equal(t, game.Move(4), e.Session.History()[0].Move, "History should record the recovered divisor")
	})

	t.Run("unreachable positions stop the game", func(t *testing.T) {
		cheat := &stateAgent{
			scriptedAgent: scriptedAgent{start: 24000},
			next:          func(s game.State) game.State { return game.State{Number: 5, ToMove: s.ToMove.Opponent()} },
		}
		agents := map[game.Side]agent.Agent{
			game.First:  cheat,
			game.Second: &scriptedAgent{},
		}

		_, _, moveMetrics, err := NewLocalEngine(agents, []int{24000}, game.First).Run()

		require.ErrorIs(t, err, gamemaster.ErrInvalidMove, "Unreachable position should be rejected")
		require.Empty(t, moveMetrics, "No move should be recorded")
	})

	t.Run("unoffered start is rejected", func(t *testing.T) {
		agents := map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{start: 100},
			game.Second: &scriptedAgent{},
		}

		_, _, _, err := NewLocalEngine(agents, []int{24000}, game.First).Run()

		require.ErrorIs(t, err, gamemaster.ErrInvalidStart, "Start must be offered")
	})

	t.Run("turn limit", func(t *testing.T) {
		agents := map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{start: 24000, moves: []game.Move{2, 2, 2}},
			game.Second: &scriptedAgent{moves: []game.Move{2, 2, 2}},
		}

		_, _, _, err := NewLocalEngine(agents, []int{24000}, game.First, WithMaxTurns(2)).Run()

		require.ErrorIs(t, err, ErrTooManyTurns, "Game should stop at the turn limit")
	})
}

func TestNewLocalEngine(t *testing.T) {
	require.Panics(t, func() {
		NewLocalEngine(map[game.Side]agent.Agent{game.First: &scriptedAgent{}}, nil, game.First)
	}, "Should panic without an agent for each player")
	require.Panics(t, func() {
		NewLocalEngine(map[game.Side]agent.Agent{
			game.First:  &scriptedAgent{},
			game.Second: &scriptedAgent{},
		}, nil, game.NoSide)
	}, "Should panic without a valid starting player")
}
