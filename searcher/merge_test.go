package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
)

func TestMerge(t *testing.T) {
	t.Run("aligning children by move regardless of order", func(t *testing.T) {
		score := game.ScoreMove(game.Chance, 21)
		reroll := game.RerollMove(game.Hold{0, 0, 0, 0, 0, 5})
		forfeit := game.ForfeitMove(game.Ones)

		first := &node{visits: 5, children: []*node{
			{move: score, visits: 3, total: 300},
			{move: reroll, visits: 2, total: 150},
		}}
		second := &node{visits: 6, children: []*node{
			{move: forfeit, visits: 1, total: 50},
			{move: reroll, visits: 4, total: 320},
			{move: score, visits: 1, total: 90},
		}}

		policy := merge([]*node{first, second})

		require.Equal(t, Policy{
			{Move: score, Visits: 4, Total: 390},
			{Move: reroll, Visits: 6, Total: 470},
			{Move: forfeit, Visits: 1, Total: 50},
		}, policy, "Should sum statistics per move in first seen order")
		require.Equal(t, first.visits+second.visits, policy.Visits(), "Should not double count visits")
		require.Equal(t, reroll, policy.Best().Move, "Should pick the most visited move")
	})

	t.Run("independent trees agree on moves", func(t *testing.T) {
		g := newTestGame(1, game.Dice{1, 2, 0, 1, 1, 1})
		m := NewMCTS(mockAdvisor{}, 1, WithEpisodes(60))

		roots := []*node{}
		for seed := uint64(1); seed <= 2; seed++ {
			root := newNode(nil, game.Move{}, g.Clone(), mockAdvisor{})
			m.grow(root, newRand(seed), 60)
			roots = append(roots, root)
		}

		policy := merge(roots)
		require.Equal(t, roots[0].visits+roots[1].visits, policy.Visits(), "Merged visits should equal all root visits")
		require.Len(t, policy, len(roots[0].children), "Same root state should expand the same moves")
	})
}

func TestPolicyBest(t *testing.T) {
	a := game.ForfeitMove(game.Ones)
	b := game.ForfeitMove(game.Twos)
	c := game.ForfeitMove(game.Threes)

	t.Run("ties go to the higher mean", func(t *testing.T) {
		policy := Policy{{Move: a, Visits: 3, Total: 30}, {Move: b, Visits: 3, Total: 60}}
		require.Equal(t, b, policy.Best().Move, "Should prefer the higher mean")
	})

	t.Run("full ties go to the first seen", func(t *testing.T) {
		policy := Policy{{Move: a, Visits: 3, Total: 30}, {Move: b, Visits: 3, Total: 30}, {Move: c, Visits: 1}}
		require.Equal(t, a, policy.Best().Move, "Should prefer the first move")
	})

	t.Run("panics when empty", func(t *testing.T) {
		require.Panics(t, func() { Policy{}.Best() }, "Should panic without moves")
	})
}
