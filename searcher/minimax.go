package searcher

import "math"

// Minimax scores node i by plain minimax over depth plies and records the
// best child. Children are tried in divisor order and only a strictly better
// score replaces the current best, so ties keep the earliest child.
func (t *Tree) Minimax(i, depth int, maximizing bool) float64 {
	t.visits++
	n := &t.nodes[i]
	if depth == 0 || n.State.Terminal() || n.Leaf() {
		return t.leafScore(n)
	}

	n.Best = NoNode
	if maximizing {
		best := math.Inf(-1)
		for _, child := range n.children {
			score := t.Minimax(child, depth-1, false)
			if score > best {
				best = score
				n.Best = child
			}
		}
		n.setScore(best)
		return best
	}

	best := math.Inf(1)
	for _, child := range n.children {
		score := t.Minimax(child, depth-1, true)
		if score < best {
			best = score
			n.Best = child
		}
	}
	n.setScore(best)
	return best
}
