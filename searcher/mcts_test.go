package searcher

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/lookup"
	"gopkg.in/yaml.v3"
)

/*
- budget: neither episodes nor duration -> panic
- precondition: terminal game -> panic
- decision: always a legal move; never a reroll without allowance
- parallel: fixed seed and episodes -> same merged policy
*/

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a budget", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS(mockAdvisor{}, 2)
		}, "Should panic without episodes or duration")
	})
}

func TestChooseMove(t *testing.T) {
	t.Run("panics on a terminal game", func(t *testing.T) {
		g := newTestGame(1, game.Dice{1, 1, 1, 1, 1, 1})
		g.Round = game.Rounds
		m := NewMCTS(mockAdvisor{}, 2, WithEpisodes(10))

		require.Panics(t, func() {
			m.ChooseMove(g)
		}, "Should refuse to search a finished game")
	})

	t.Run("never rerolls without allowance", func(t *testing.T) {
		for seed := uint64(1); seed <= 5; seed++ {
			g := newTestGame(seed, game.Dice{0, 1, 1, 1, 1, 2})
			g.Player().Rerolls = 0
			m := NewMCTS(mockAdvisor{}, 2, WithEpisodes(200), WithSeed(seed))

			move := m.ChooseMove(g)
			require.NotEqual(t, game.Reroll, move.Kind, "Should not reroll with no rerolls left")
			_, err := g.Play(move, newRand(seed))
			require.NoError(t, err, "Chosen move %s should be legal", move)
		}
	})

	t.Run("takes the maxi yahtzee", func(t *testing.T) {
		g := newTestGame(2, game.Dice{0, 0, 0, 0, 6, 0})
		g.Round = game.Rounds - 1
		g.Player().Open = game.MaxiYahtzee.Bit()
		m := NewMCTS(mockAdvisor{}, 4, WithEpisodes(400), WithSeed(7))

		move := m.ChooseMove(g)
		require.Equal(t, game.ScoreMove(game.MaxiYahtzee, 100), move, "Should score 100 on the last open category")
	})

	t.Run("time budget returns a legal move", func(t *testing.T) {
		g := newTestGame(3, game.Dice{2, 1, 0, 0, 3, 0})
		m := NewMCTS(mockAdvisor{}, 4, WithDuration(5*time.Millisecond), WithMetrics())

		policy, metric := m.Search(g)
		move := policy.Best().Move
		_, err := g.Play(move, newRand(3))
		require.NoError(t, err, "Chosen move %s should be legal", move)
		require.Equal(t, 4, metric.Goroutines, "Should report the worker count")
		require.GreaterOrEqual(t, metric.Episodes, 4, "Every worker should finish at least one episode")
		require.Equal(t, metric.Episodes, metric.Visits, "Every episode should reach the merged root")
	})
}

func TestSearch(t *testing.T) {
	t.Run("fixed seed is reproducible", func(t *testing.T) {
		g := newTestGame(4, game.Dice{1, 0, 2, 0, 2, 1})
		first, _ := NewMCTS(mockAdvisor{}, 3, WithEpisodes(150), WithSeed(11)).Search(g)
		second, _ := NewMCTS(mockAdvisor{}, 3, WithEpisodes(150), WithSeed(11)).Search(g)

		require.Equal(t, first, second, "Same seed and episodes should give the same policy")
		require.Equal(t, 150, first.Visits(), "Episodes should be split across workers")
	})

	t.Run("writes a decision trace and a dot graph", func(t *testing.T) {
		g := newTestGame(5, game.Dice{1, 1, 1, 1, 1, 1})
		var trace bytes.Buffer
		m := NewMCTS(mockAdvisor{}, 2, WithEpisodes(50), WithTrace(&trace))

		move := m.ChooseMove(g)

		var decisions []decisionTrace
		require.NoError(t, yaml.Unmarshal(trace.Bytes(), &decisions), "Trace should be valid YAML")
		require.Len(t, decisions, 1, "Should trace one decision")
		require.Equal(t, move.String(), decisions[0].Chosen, "Trace should record the chosen move")
		require.Len(t, decisions[0].Open, game.NumCategories, "Trace should list open categories")

		var dot bytes.Buffer
		require.NoError(t, m.WriteDOT(&dot, 2), "Should render the tree")
		require.True(t, strings.HasPrefix(dot.String(), "digraph search {"), "Should write a digraph")
		require.Contains(t, dot.String(), "n0 -> n1;", "Should link the root to its children")
	})
}

var (
	tablesOnce sync.Once
	tables     *lookup.Tables
	tablesErr  error
)

func TestSearchWithOutcomeTable(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the outcome table")
	}
	tablesOnce.Do(func() {
		var outcomes []lookup.Entry
		outcomes, tablesErr = lookup.BuildOutcomes(context.Background(), 0)
		tables = &lookup.Tables{Outcomes: outcomes}
	})
	require.NoError(t, tablesErr, "Should build the outcome table")

	g := newTestGame(6, game.Dice{0, 0, 0, 1, 1, 4})
	m := NewMCTS(tables, 4, WithEpisodes(400), WithSeed(3))
	move := m.ChooseMove(g)
	_, err := g.Play(move, newRand(6))
	require.NoError(t, err, "Chosen move %s should be legal", move)
}
