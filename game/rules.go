package game

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Valid reports whether m is one of the three divisors.
func (m Move) Valid() bool {
	return lo.Contains(Moves, m)
}

// Quotient divides number by m and rounds half to even, so 6.5 becomes 6
// and 7.5 becomes 8.
func Quotient(number int, m Move) int {
	if !m.Valid() {
		panic(fmt.Sprintf("invalid divisor %d", m))
	}
	return int(math.RoundToEven(float64(number) / float64(m)))
}

// ApplyTurn scores an already rounded quotient for the player who produced it.
// An odd quotient earns a point and an even one costs a point. A quotient
// ending in 0 or 5 adds a point to the shared bank.
func ApplyTurn(quotient, moverScore, bank int) (int, int, int) {
	if quotient%2 == 0 {
		moverScore--
	} else {
		moverScore++
	}
	if quotient%5 == 0 {
		bank++
	}
	return quotient, moverScore, bank
}

// Outcome is the settled result of a finished game.
type Outcome struct {
	Final  State // Scores include the bank
	BankTo Side
	Winner Side // NoSide on a draw
}

func (o Outcome) Draw() bool {
	return o.Winner == NoSide
}

// Settle credits the bank to the player left on move at a terminal state and
// decides the winner by final score.
func Settle(s State) Outcome {
	if !s.Terminal() {
		panic("cannot settle a game that is not over")
	}

	stuck := s.ToMove
	final := s.WithScore(stuck, s.Score(stuck)+s.Bank)
	final.Bank = 0

	winner := NoSide
	switch {
	case final.ScoreFirst > final.ScoreSecond:
		winner = First
	case final.ScoreSecond > final.ScoreFirst:
		winner = Second
	}

	return Outcome{Final: final, BankTo: stuck, Winner: winner}
}
