package searcher

import (
	"fmt"
	"math"

	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"golang.org/x/exp/rand"
)

// node is owned by exactly one worker. Children are owned by their parent;
// parent is only followed during backup.
type node struct {
	parent   *node
	move     game.Move // Move played from parent to reach this node
	state    *game.Game
	children []*node
	cursor   cursor
	visits   int
	total    float64 // Sum of raw rewards
}

func newNode(parent *node, move game.Move, state *game.Game, advisor Advisor) *node {
	return &node{
		parent: parent,
		move:   move,
		state:  state,
		cursor: newCursor(state, advisor),
	}
}

func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.total / float64(n.visits)
}

// isLeaf reports whether selection stops here: the node still has an
// untried move or the game is over.
func (n *node) isLeaf() bool {
	return n.state.IsTerminal() || n.cursor.hasNext()
}

// expand materializes the next untried move into a new child.
func (n *node) expand(advisor Advisor, rng *rand.Rand) *node {
	move, ok := n.cursor.next()
	if !ok {
		panic(fmt.Sprintf("no legal move to expand in round %d for dice %s", n.state.Round, n.state.Dice))
	}
	state, err := n.state.Play(move, rng)
	if err != nil {
		panic(fmt.Sprintf("expanded illegal move %s: %v", move, err))
	}
	child := newNode(n, move, state, advisor)
	n.children = append(n.children, child)
	return child
}

// bestChild picks the child with the highest UCT value.
func (n *node) bestChild(s *scale) *node {
	if len(n.children) == 0 {
		panic("node has no children")
	}
	policy := newUCT(CSquared, float64(n.visits))

	var best *node
	bestValue := math.Inf(-1)
	for _, child := range n.children {
		if child.visits == 0 {
			return child
		}
		value := policy.evaluate(s.normalize(child.mean()), float64(child.visits))
		if value > bestValue {
			bestValue = value
			best = child
		}
	}
	return best
}

func (n *node) backup(reward float64) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		cur.total += reward
	}
}
