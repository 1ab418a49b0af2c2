package searcher

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"gopkg.in/yaml.v3"
)

type decisionTrace struct {
	Round  int         `yaml:"round"`
	Player int         `yaml:"player"`
	Dice   string      `yaml:"dice"`
	Open   []string    `yaml:"open"`
	Chosen string      `yaml:"chosen"`
	Moves  []moveTrace `yaml:"moves"`
}

type moveTrace struct {
	Move   string  `yaml:"move"`
	Visits int     `yaml:"visits"`
	Mean   float64 `yaml:"mean"`
}

// writeTrace appends one YAML document describing a decision.
func writeTrace(w io.Writer, g *game.Game, policy Policy) error {
	trace := decisionTrace{
		Round:  g.Round,
		Player: g.Current,
		Dice:   g.Dice.String(),
		Chosen: policy.Best().Move.String(),
	}
	for c := game.Category(0); c < game.NumCategories; c++ {
		if g.Player().IsOpen(c) {
			trace.Open = append(trace.Open, c.String())
		}
	}
	for _, stats := range policy {
		trace.Moves = append(trace.Moves, moveTrace{
			Move:   stats.Move.String(),
			Visits: stats.Visits,
			Mean:   stats.Mean(),
		})
	}

	out, err := yaml.Marshal([]decisionTrace{trace})
	if err != nil {
		return fmt.Errorf("failed to marshal decision trace: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write decision trace: %w", err)
	}
	return nil
}

// WriteDOT renders the first worker's tree from the last search as a
// Graphviz digraph, down to maxDepth plies below the root.
func (m *MCTS) WriteDOT(w io.Writer, maxDepth int) error {
	if m.root == nil {
		return fmt.Errorf("no search tree to write")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph search {")
	fmt.Fprintln(bw, `  node [shape=box, fontname="monospace"];`)

	id := 0
	var walk func(n *node, depth int) int
	walk = func(n *node, depth int) int {
		self := id
		id++
		label := "root"
		if n.parent != nil {
			label = n.move.String()
		}
		fmt.Fprintf(bw, "  n%d [label=\"%s\\nN=%d mean=%.1f\"];\n", self, label, n.visits, n.mean())
		if depth >= maxDepth {
			return self
		}
		for _, child := range n.children {
			childID := walk(child, depth+1)
			fmt.Fprintf(bw, "  n%d -> n%d;\n", self, childID)
		}
		return self
	}
	walk(m.root, 0)

	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write dot graph: %w", err)
	}
	return nil
}
