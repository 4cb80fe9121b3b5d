package searcher

import "divide/game"

// maxPrealloc bounds the node slice allocated up front for deep trees.
const maxPrealloc = 1 << 16

// Generate builds the game tree below state to maxDepth plies. Terminal
// states and nodes at the depth limit are leaves and get scored by evaluate
// from the maximizer's perspective. Every other node gets exactly one child
// per divisor.
func Generate(state game.State, maxDepth int, maximizer game.Side, evaluate game.Evaluator) *Tree {
	t := &Tree{
		nodes:     make([]Node, 0, treeSize(maxDepth)),
		maximizer: maximizer,
		evaluate:  evaluate,
	}
	t.expand(t.add(state, 0), 0, maxDepth)
	return t
}

func (t *Tree) expand(i, depth, maxDepth int) {
	state := t.nodes[i].State
	if depth >= maxDepth || state.Terminal() {
		t.leafScore(&t.nodes[i])
		return
	}

	t.nodes[i].children = make([]int, 0, len(game.Moves))
	for _, move := range game.Moves {
		child := t.add(state.Play(move), move)
		t.nodes[i].children = append(t.nodes[i].children, child)
		t.expand(child, depth+1, maxDepth)
	}
}

// treeSize is the node count of a full ternary tree of the given depth.
func treeSize(depth int) int {
	size, level := 1, 1
	for d := 0; d < depth && size < maxPrealloc; d++ {
		level *= len(game.Moves)
		size += level
	}
	return min(size, maxPrealloc)
}
