package game

// Weights of the hand-tuned position heuristic.
const (
	Win = 10000.0 // Terminal bound, dominates every non-terminal score

	nearScale  = 3.0 // number < 50
	closeScale = 5.0 // number < 20, compounds with nearScale

	bankableBonus = 100.0
	bankWeight    = 40.0

	endingReply = 500.0
	evenReply   = 30.0
	oddReply    = 60.0
)

// EvaluatePosition scores s from the maximizer's perspective, the side that
// started the search.
//
// A terminal state is worth +Win when the opponent is the one stuck on move
// and -Win otherwise. Other states add up a number factor that grows as the
// number shrinks, both players' scores, the bank, and a look-ahead over the
// three replies available to the side on move.
func EvaluatePosition(s State, maximizer Side) float64 {
	opponent := maximizer.Opponent()
	opponentToMove := s.ToMove == opponent

	if s.Terminal() {
		if opponentToMove {
			return Win
		}
		return -Win
	}

	numberFactor := float64(100 - s.Number)
	if s.Number < 50 {
		numberFactor *= nearScale
	}
	if s.Number < 20 {
		numberFactor *= closeScale
	}

	bankBonus := 0.0
	if s.Number%5 == 0 {
		bankBonus = bankableBonus
	}

	ours := float64(s.Score(maximizer))
	theirs := float64(s.Score(opponent))

	score := 0.0
	if opponentToMove {
		score += 0.5*numberFactor - 80*theirs + 100*ours + 0.5*bankBonus
	} else {
		score += numberFactor - 100*theirs + 120*ours + bankBonus
	}
	score += bankWeight * float64(s.Bank)

	for _, m := range Moves {
		reply := Quotient(s.Number, m)
		switch {
		case reply <= TerminalNumber:
			if opponentToMove {
				score += endingReply
			} else {
				score -= endingReply
			}
		case reply%2 == 0 && !opponentToMove:
			score += evenReply
		case reply%2 == 1 && opponentToMove:
			score -= oddReply
		}
	}

	return score
}

var _ Evaluator = EvaluatePosition
