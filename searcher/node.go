package searcher

import "divide/game"

// NoNode marks a missing node index.
const NoNode = -1

// Root is the index of the root node in every Tree.
const Root = 0

// Node is one position in a generated tree. Children are indices into the
// owning Tree, in divisor order 2, 3, 4.
type Node struct {
	State    game.State
	Move     game.Move // Divisor applied by the parent, 0 at the root
	Score    float64
	Scored   bool
	Best     int // Child index chosen by the last search, NoNode if none
	children []int
}

func (n *Node) Children() []int {
	return n.children
}

func (n *Node) Leaf() bool {
	return len(n.children) == 0
}

func (n *Node) setScore(score float64) {
	n.Score = score
	n.Scored = true
}

// Tree is an arena of nodes rooted at index Root. The parent owns its
// children exclusively and Best points back into the parent's own children.
type Tree struct {
	nodes     []Node
	maximizer game.Side
	evaluate  game.Evaluator
	visits    int
	cutoffs   int
}

func (t *Tree) Node(i int) *Node {
	return &t.nodes[i]
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Visits counts nodes entered by searches on this tree.
func (t *Tree) Visits() int {
	return t.visits
}

// Cutoffs counts children skipped by alpha-beta pruning.
func (t *Tree) Cutoffs() int {
	return t.cutoffs
}

// BestChild returns the child chosen at node i by the last search.
func (t *Tree) BestChild(i int) (*Node, bool) {
	best := t.nodes[i].Best
	if best == NoNode {
		return nil, false
	}
	return &t.nodes[best], true
}

// PrincipalVariation follows best children from the root.
func (t *Tree) PrincipalVariation() []game.Move {
	var line []game.Move
	node := &t.nodes[Root]
	for node.Best != NoNode {
		node = &t.nodes[node.Best]
		line = append(line, node.Move)
	}
	return line
}

func (t *Tree) add(state game.State, move game.Move) int {
	t.nodes = append(t.nodes, Node{State: state, Move: move, Best: NoNode})
	return len(t.nodes) - 1
}

func (t *Tree) leafScore(n *Node) float64 {
	score := t.evaluate(n.State, t.maximizer)
	n.setScore(score)
	return score
}
