package game

import "fmt"

// State is the full game position. It is a value type: Play returns a new
// State and never mutates the receiver.
type State struct {
	Number      int  `json:"number" yaml:"number"`
	ScoreFirst  int  `json:"score_first" yaml:"score_first"`
	ScoreSecond int  `json:"score_second" yaml:"score_second"`
	Bank        int  `json:"bank" yaml:"bank"`
	ToMove      Side `json:"to_move" yaml:"to_move"`
}

// NewState returns the opening position for a chosen starting number.
func NewState(number int, first Side) State {
	return State{Number: number, ToMove: first}
}

func (s State) Score(side Side) int {
	switch side {
	case First:
		return s.ScoreFirst
	case Second:
		return s.ScoreSecond
	default:
		panic(fmt.Sprintf("no score for side %d", side))
	}
}

// WithScore returns a copy of s with side's score replaced.
func (s State) WithScore(side Side, score int) State {
	switch side {
	case First:
		s.ScoreFirst = score
	case Second:
		s.ScoreSecond = score
	default:
		panic(fmt.Sprintf("no score for side %d", side))
	}
	return s
}

// Terminal reports whether the player on move is stuck.
func (s State) Terminal() bool {
	return s.Number <= TerminalNumber
}

// LegalMoves returns the divisors available to the player on move, none at a
// terminal state.
func (s State) LegalMoves() []Move {
	if s.Terminal() {
		return nil
	}
	return Moves
}

// Play divides the number by m, scores the result for the player on move and
// passes the turn.
func (s State) Play(m Move) State {
	mover := s.ToMove
	number, score, bank := ApplyTurn(Quotient(s.Number, m), s.Score(mover), s.Bank)
	next := s.WithScore(mover, score)
	next.Number = number
	next.Bank = bank
	next.ToMove = mover.Opponent()
	return next
}

func (s State) String() string {
	return fmt.Sprintf("number=%d player1=%d player2=%d bank=%d to_move=%s",
		s.Number, s.ScoreFirst, s.ScoreSecond, s.Bank, s.ToMove)
}
