package searcher

import (
	"fmt"
	"strings"
)

// Algorithm selects how the generated tree is searched.
type Algorithm int

const (
	Minimax Algorithm = iota
	AlphaBeta
)

// AlgorithmFor maps the alpha-beta toggle to an Algorithm.
func AlgorithmFor(useAlphaBeta bool) Algorithm {
	if useAlphaBeta {
		return AlphaBeta
	}
	return Minimax
}

func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "minimax":
		return Minimax, nil
	case "alphabeta", "alpha-beta":
		return AlphaBeta, nil
	}
	return Minimax, fmt.Errorf("unknown search algorithm %q", name)
}

func (a Algorithm) String() string {
	switch a {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}
