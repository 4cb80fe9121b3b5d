package game

import "fmt"

// Side identifies one of the two players. IDs start at 1 like the player
// numbers shown to humans.
type Side int

const (
	NoSide Side = iota
	First
	Second
)

func (s Side) Opponent() Side {
	switch s {
	case First:
		return Second
	case Second:
		return First
	default:
		return NoSide
	}
}

func (s Side) Valid() bool {
	return s == First || s == Second
}

func (s Side) String() string {
	switch s {
	case First:
		return "player1"
	case Second:
		return "player2"
	default:
		return "none"
	}
}

// ParseSide accepts "1", "2", "first", "second", "player1" or "player2".
func ParseSide(value string) (Side, error) {
	switch value {
	case "1", "first", "player1":
		return First, nil
	case "2", "second", "player2":
		return Second, nil
	}
	return NoSide, fmt.Errorf("unknown side %q", value)
}

// Move is the divisor applied to the current number.
type Move int

// Moves lists the legal divisors in the order they are expanded by the search.
var Moves = []Move{2, 3, 4}

// TerminalNumber is the largest number at which the player on move is stuck.
const TerminalNumber = 10

// Evaluator scores a state from the maximizer's perspective.
type Evaluator func(s State, maximizer Side) float64
