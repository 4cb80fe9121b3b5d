package gamemaster

import (
	"errors"
	"fmt"

	"divide/game"

	"github.com/samber/lo"
)

var (
	ErrNotStarted     = errors.New("game has not started")
	ErrAlreadyStarted = errors.New("game has already started")
	ErrInvalidStart   = errors.New("starting number was not offered")
	ErrInvalidSide    = errors.New("invalid starting side")
	ErrInvalidMove    = errors.New("divisor must be 2, 3 or 4")
	ErrGameOver       = errors.New("game is over - no moves allowed")
)

// Record is one played move.
type Record struct {
	Step   int
	Player game.Side
	Move   game.Move
	Before game.State
	After  game.State
}

// Session holds the authoritative state of one game. Every move goes through
// Play, which validates it and replaces the state.
type Session struct {
	candidates []int
	state      game.State
	started    bool
	history    []Record
}

func NewSession(candidates []int) *Session {
	return &Session{candidates: append([]int(nil), candidates...)}
}

// Candidates returns the opening numbers on offer.
func (s *Session) Candidates() []int {
	return append([]int(nil), s.candidates...)
}

// Start opens the game at number with first on move.
func (s *Session) Start(number int, first game.Side) (game.State, error) {
	if s.started {
		return s.state, ErrAlreadyStarted
	}
	if !first.Valid() {
		return game.State{}, fmt.Errorf("%w: %d", ErrInvalidSide, first)
	}
	if !lo.Contains(s.candidates, number) {
		return game.State{}, fmt.Errorf("%w: %d not in %v", ErrInvalidStart, number, s.candidates)
	}

	s.state = game.NewState(number, first)
	s.started = true
	return s.state, nil
}

func (s *Session) Started() bool {
	return s.started
}

func (s *Session) State() game.State {
	return s.state
}

// Over reports whether the player on move is stuck.
func (s *Session) Over() bool {
	return s.started && s.state.Terminal()
}

// Play applies move for the player on move and returns the new state.
func (s *Session) Play(move game.Move) (game.State, error) {
	if !s.started {
		return game.State{}, ErrNotStarted
	}
	if s.Over() {
		return s.state, ErrGameOver
	}
	if !move.Valid() {
		return s.state, fmt.Errorf("%w: got %d", ErrInvalidMove, move)
	}

	before := s.state
	s.state = before.Play(move)
	s.history = append(s.history, Record{
		Step:   len(s.history) + 1,
		Player: before.ToMove,
		Move:   move,
		Before: before,
		After:  s.state,
	})
	return s.state, nil
}

// Accept replaces the state with one produced elsewhere, typically by the
// search, after checking it is reachable by a single legal move.
func (s *Session) Accept(next game.State) (game.Move, error) {
	if !s.started {
		return 0, ErrNotStarted
	}
	if s.Over() {
		return 0, ErrGameOver
	}
	for _, move := range game.Moves {
		if s.state.Play(move) == next {
			_, err := s.Play(move)
			return move, err
		}
	}
	return 0, fmt.Errorf("%w: %v is not reachable from %v", ErrInvalidMove, next, s.state)
}

func (s *Session) History() []Record {
	return append([]Record(nil), s.history...)
}

// Finish settles a finished game: the bank goes to the stuck player and the
// higher score wins.
func (s *Session) Finish() (game.Outcome, error) {
	if !s.started {
		return game.Outcome{}, ErrNotStarted
	}
	if !s.Over() {
		return game.Outcome{}, fmt.Errorf("cannot finish at number %d: game is still running", s.state.Number)
	}
	return game.Settle(s.state), nil
}
