package searcher

import "github.com/vilhelmlindell/maxi-yahtzee/game"

// MoveStats is the combined statistics of one root move across all trees.
type MoveStats struct {
	Move   game.Move
	Visits int
	Total  float64
}

func (s MoveStats) Mean() float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Total / float64(s.Visits)
}

// Policy lists root moves in the order they were first seen.
type Policy []MoveStats

// merge aligns root children by move value and sums their statistics.
func merge(roots []*node) Policy {
	index := map[game.Move]int{}
	policy := Policy{}
	for _, root := range roots {
		for _, child := range root.children {
			i, ok := index[child.move]
			if !ok {
				i = len(policy)
				index[child.move] = i
				policy = append(policy, MoveStats{Move: child.move})
			}
			policy[i].Visits += child.visits
			policy[i].Total += child.total
		}
	}
	return policy
}

// Best returns the most visited move. Ties go to the higher mean, then to
// the move seen first.
func (p Policy) Best() MoveStats {
	if len(p) == 0 {
		panic("policy has no moves")
	}
	best := p[0]
	for _, stats := range p[1:] {
		if stats.Visits > best.Visits || (stats.Visits == best.Visits && stats.Mean() > best.Mean()) {
			best = stats
		}
	}
	return best
}

// Visits is the total number of root visits across trees.
func (p Policy) Visits() int {
	visits := 0
	for _, stats := range p {
		visits += stats.Visits
	}
	return visits
}
