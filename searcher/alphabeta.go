package searcher

import "math"

// AlphaBeta is Minimax with alpha-beta pruning. It walks children in the same
// order with the same tie-break and stops expanding a node once beta <= alpha.
// Called with an open window at the root it returns the minimax value and
// picks the same root child.
func (t *Tree) AlphaBeta(i, depth int, alpha, beta float64, maximizing bool) float64 {
	t.visits++
	n := &t.nodes[i]
	if depth == 0 || n.State.Terminal() || n.Leaf() {
		return t.leafScore(n)
	}

	n.Best = NoNode
	if maximizing {
		best := math.Inf(-1)
		for k, child := range n.children {
			score := t.AlphaBeta(child, depth-1, alpha, beta, false)
			if score > best {
				best = score
				n.Best = child
			}
			alpha = math.Max(alpha, best)
			if beta <= alpha { // Beta cut-off
				t.cutoffs += len(n.children) - k - 1
				break
			}
		}
		n.setScore(best)
		return best
	}

	best := math.Inf(1)
	for k, child := range n.children {
		score := t.AlphaBeta(child, depth-1, alpha, beta, true)
		if score < best {
			best = score
			n.Best = child
		}
		beta = math.Min(beta, best)
		if beta <= alpha { // Alpha cut-off
			t.cutoffs += len(n.children) - k - 1
			break
		}
	}
	n.setScore(best)
	return best
}

// Search runs algorithm from the root with the maximizer on move.
func (t *Tree) Search(algorithm Algorithm, depth int) float64 {
	switch algorithm {
	case Minimax:
		return t.Minimax(Root, depth, true)
	case AlphaBeta:
		return t.AlphaBeta(Root, depth, math.Inf(-1), math.Inf(1), true)
	default:
		panic("unexpected search algorithm " + algorithm.String())
	}
}
