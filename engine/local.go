package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"divide/experiments/metrics"
	"divide/game"
	"divide/gamemaster"
	"divide/searcher/agent"

	"github.com/rs/zerolog/log"
)

var ErrTooManyTurns = errors.New("game exceeded the turn limit")

type Option func(e *LocalEngine)

type LocalEngine struct {
	Session  *gamemaster.Session
	Agents   map[game.Side]agent.Agent
	First    game.Side
	out      io.Writer
	maxTurns int
}

// WithOutput sends a line per move and the final result to w.
func WithOutput(w io.Writer) Option {
	return func(e *LocalEngine) {
		if w != nil {
			e.out = w
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *LocalEngine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// NewLocalEngine sets up a game in which first picks the opening number from
// candidates and moves first.
func NewLocalEngine(agents map[game.Side]agent.Agent, candidates []int, first game.Side, options ...Option) *LocalEngine {
	if agents[game.First] == nil || agents[game.Second] == nil {
		panic("need an agent for both players")
	}
	if !first.Valid() {
		panic("invalid starting player")
	}

	e := &LocalEngine{
		Session:  gamemaster.NewSession(candidates),
		Agents:   agents,
		First:    first,
		out:      io.Discard,
		maxTurns: MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until the player on move is stuck.
func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.First),
		StartTime:      time.Now(),
	}

	number, err := e.Agents[e.First].ChooseStart(e.Session.Candidates(), e.First)
	if err != nil {
		return game.Outcome{}, gameMetric, nil, fmt.Errorf("%s failed to choose a start: %w", e.First, err)
	}
	state, err := e.Session.Start(number, e.First)
	if err != nil {
		return game.Outcome{}, gameMetric, nil, err
	}
	gameMetric.StartNumber = number

	log.Info().Msgf("%s is starting at %d", e.First, number)
	fmt.Fprintf(e.out, "%s chose %d\n", e.First, number)

	var moveMetrics []metrics.MoveMetric
	for step := 1; !e.Session.Over(); step++ {
		if step > e.maxTurns {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("%w: %d", ErrTooManyTurns, e.maxTurns)
		}

		player := state.ToMove
		move, searchMetric, err := e.turn(player, state)
		if err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, err
		}
		state = e.Session.State()

		if searchMetric.Fallback {
			gameMetric.Fallbacks++
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(player),
			Move:         int(move),
			Number:       state.Number,
			SearchMetric: searchMetric,
		})

		log.Debug().Msgf("step %d: %s divides by %d -> %s", step, player, move, state)
		fmt.Fprintf(e.out, "%s divides by %d -> %d (player1 %d, player2 %d, bank %d)\n",
			player, move, state.Number, state.ScoreFirst, state.ScoreSecond, state.Bank)
	}

	outcome, err := e.Session.Finish()
	if err != nil {
		return game.Outcome{}, gameMetric, moveMetrics, err
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.ScoreFirst = outcome.Final.ScoreFirst
	gameMetric.ScoreSecond = outcome.Final.ScoreSecond
	if !outcome.Draw() {
		gameMetric.Winner = outcome.Winner.String()
	}

	if outcome.Draw() {
		log.Info().Msgf("game over after %d moves: draw", gameMetric.TotalMoves)
		fmt.Fprintf(e.out, "%s is stuck and collects the bank. Game over! player1 %d, player2 %d: draw\n",
			outcome.BankTo, outcome.Final.ScoreFirst, outcome.Final.ScoreSecond)
	} else {
		log.Info().Msgf("game over after %d moves: %s wins", gameMetric.TotalMoves, outcome.Winner)
		fmt.Fprintf(e.out, "%s is stuck and collects the bank. Game over! player1 %d, player2 %d: %s wins\n",
			outcome.BankTo, outcome.Final.ScoreFirst, outcome.Final.ScoreSecond, outcome.Winner)
	}
	if gameMetric.Fallbacks > 0 {
		log.Warn().Msgf("%d moves fell back to a random divisor", gameMetric.Fallbacks)
	}

	return outcome, gameMetric, moveMetrics, nil
}

// turn asks player's agent for a move and applies it through the session.
// Positions returned by a StatePlayer are accepted as the new state.
func (e *LocalEngine) turn(player game.Side, state game.State) (game.Move, metrics.SearchMetric, error) {
	if sp, ok := e.Agents[player].(agent.StatePlayer); ok {
		next, searchMetric, err := sp.PlayState(state)
		if err != nil {
			return 0, searchMetric, fmt.Errorf("%s failed to move: %w", player, err)
		}
		move, err := e.Session.Accept(next)
		if err != nil {
			return 0, searchMetric, fmt.Errorf("%s returned an unreachable state: %w", player, err)
		}
		return move, searchMetric, nil
	}

	move, searchMetric, err := e.Agents[player].FindMove(state)
	if err != nil {
		return 0, searchMetric, fmt.Errorf("%s failed to move: %w", player, err)
	}
	if _, err := e.Session.Play(move); err != nil {
		return 0, searchMetric, fmt.Errorf("%s played an illegal move: %w", player, err)
	}
	return move, searchMetric, nil
}

var _ Engine = (*LocalEngine)(nil)
