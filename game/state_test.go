package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestApply(t *testing.T) {
	t.Run("scoring maxi yahtzee", func(t *testing.T) {
		rng := newRand(1)
		g := NewGame(1, rng)
		g.Dice = Dice{0, 0, 6, 0, 0, 0}

		err := g.Apply(ScoreMove(MaxiYahtzee, 100), rng)
		require.NoError(t, err, "Should score six of a kind")
		require.Equal(t, uint8(100), g.Players[0].Scores[MaxiYahtzee], "Should score 100")
		require.False(t, g.Players[0].IsOpen(MaxiYahtzee), "Should clear the category bit")
		require.Equal(t, AllCategories&^MaxiYahtzee.Bit(), g.Players[0].Open, "Should clear exactly one bit")
		require.Equal(t, 1, g.Round, "Single player should start the next round")
	})

	t.Run("play leaves the input untouched", func(t *testing.T) {
		rng := newRand(2)
		g := NewGame(2, rng)
		g.Dice = Dice{1, 1, 1, 1, 1, 1}
		before := g.Clone()

		next, err := g.Play(ScoreMove(Straight, 21), rng)
		require.NoError(t, err, "Should score the straight")
		require.Equal(t, before, g, "Input game should not change")
		require.Equal(t, 1, next.Current, "Turn should pass to the second player")
		require.Equal(t, uint8(21), next.Players[0].Scores[Straight], "Should record the score")
	})

	t.Run("reroll keeps the mask and spends a reroll", func(t *testing.T) {
		rng := newRand(3)
		g := NewGame(1, rng)
		g.Dice = Dice{2, 0, 0, 0, 0, 4}

		err := g.Apply(RerollMove(Hold{0, 0, 0, 0, 0, 4}), rng)
		require.NoError(t, err, "Should reroll two dice")
		require.Equal(t, uint8(1), g.Player().Rerolls, "Should spend one reroll")
		require.Equal(t, AllCategories, g.Player().Open, "Reroll should not touch the mask")
		require.GreaterOrEqual(t, g.Dice[5], uint8(4), "Should keep the held sixes")
	})

	t.Run("rejects illegal moves", func(t *testing.T) {
		rng := newRand(4)
		g := NewGame(1, rng)
		g.Dice = Dice{2, 0, 0, 0, 0, 4}

		err := g.Apply(RerollMove(Hold{0, 1, 0, 0, 0, 0}), rng)
		require.ErrorIs(t, err, ErrIllegalHold, "Should reject holding an absent face")

		err = g.Apply(RerollMove(Hold(g.Dice)), rng)
		require.ErrorIs(t, err, ErrIllegalHold, "Should reject holding every die")

		err = g.Apply(ScoreMove(Straight, 21), rng)
		require.ErrorIs(t, err, ErrIllegalScore, "Should reject an unachieved category")

		err = g.Apply(ScoreMove(Sixes, 30), rng)
		require.ErrorIs(t, err, ErrIllegalScore, "Should reject wrong points")

		g.Player().Rerolls = 0
		err = g.Apply(RerollMove(Hold{}), rng)
		require.ErrorIs(t, err, ErrNoRerolls, "Should reject reroll without allowance")

		g.Player().fill(Chance, 10)
		err = g.Apply(ForfeitMove(Chance), rng)
		require.ErrorIs(t, err, ErrCategoryClosed, "Should reject forfeiting a filled category")
	})

	t.Run("rerolls reset each turn", func(t *testing.T) {
		rng := newRand(5)
		g := NewGame(2, rng)
		g.Players[1].Rerolls = 0

		require.NoError(t, g.Apply(ForfeitMove(Ones), rng), "Should forfeit")
		require.Equal(t, uint8(MaxRerolls), g.Player().Rerolls, "New turn should reset rerolls")
	})

	t.Run("terminal games reject moves", func(t *testing.T) {
		rng := newRand(6)
		g := NewGame(1, rng)
		g.Round = Rounds

		err := g.Apply(ForfeitMove(Ones), rng)
		require.ErrorIs(t, err, ErrTerminal, "Should reject moves after the last round")
		require.Empty(t, g.LegalMoves(), "Terminal game should have no moves")
	})
}

func TestTwoPlayerGame(t *testing.T) {
	t.Run("terminal after twenty rounds with the higher total winning", func(t *testing.T) {
		rng := newRand(7)
		g := NewGame(2, rng)
		for c := Category(0); c < NumCategories; c++ {
			require.False(t, g.IsTerminal(), "Should not be terminal before round %d ends", c)
			require.NoError(t, g.Apply(ForfeitMove(c), rng), "First player should forfeit")

			if c == Chance {
				g.Dice = Dice{0, 0, 0, 0, 0, 6}
				require.NoError(t, g.Apply(ScoreMove(Chance, 36), rng), "Second player should score chance")
			} else {
				require.NoError(t, g.Apply(ForfeitMove(c), rng), "Second player should forfeit")
			}
		}

		require.True(t, g.IsTerminal(), "Should be terminal after twenty rounds")
		require.Equal(t, Rounds, g.Round, "Round counter should reach twenty")
		require.Equal(t, 1, g.Winner(), "Second player should win")
	})

	t.Run("ties go to the lower index", func(t *testing.T) {
		g := &Game{Players: []Player{NewPlayer(), NewPlayer()}, Round: Rounds}
		require.Equal(t, 0, g.Winner(), "Tie should go to the first player")
	})
}

func TestTotal(t *testing.T) {
	t.Run("adds the bonus at the threshold", func(t *testing.T) {
		p := NewPlayer()
		p.fill(Fours, 16)
		p.fill(Fives, 25)
		p.fill(Sixes, 30)
		require.Equal(t, 71, p.Total(), "Should not add the bonus below the threshold")

		p.fill(Ones, 4)
		require.Equal(t, 75+Bonus, p.Total(), "Should add the bonus at the threshold")
	})

	t.Run("beating the score", func(t *testing.T) {
		g := &Game{Players: []Player{NewPlayer()}}
		g.Players[0].fill(MaxiYahtzee, 100)
		g.Players[0].fill(Chance, 36)
		require.False(t, g.Beats(DefaultScoreToBeat), "136 should not beat 200")
		require.True(t, g.Beats(100), "136 should beat 100")
	})
}

func TestLegalMoves(t *testing.T) {
	t.Run("no rerolls without allowance", func(t *testing.T) {
		rng := newRand(8)
		g := NewGame(1, rng)
		g.Dice = Dice{1, 1, 1, 1, 1, 1}
		g.Player().Rerolls = 0

		moves := g.LegalMoves()
		require.NotEmpty(t, moves, "Should have moves")
		for _, m := range moves {
			require.NotEqual(t, Reroll, m.Kind, "Should not offer %s", m)
		}
	})

	t.Run("holds collapse equal faces", func(t *testing.T) {
		holds := Dice{0, 0, 0, 0, 0, 6}.Holds()
		require.Len(t, holds, 6, "Six equal dice should give six distinct holds")

		holds = Dice{1, 1, 1, 1, 1, 1}.Holds()
		require.Len(t, holds, 63, "Six distinct dice should give 63 holds")
	})

	t.Run("every legal move applies", func(t *testing.T) {
		rng := newRand(9)
		g := NewGame(2, rng)
		for _, m := range g.LegalMoves() {
			_, err := g.Play(m, rng)
			require.NoError(t, err, "Legal move %s should apply", m)
		}
	})
}

func TestPlayout(t *testing.T) {
	t.Run("reaches the end of the game", func(t *testing.T) {
		rng := newRand(10)
		for players := 1; players <= 3; players++ {
			g := NewGame(players, rng)
			g.Playout(rng)

			require.True(t, g.IsTerminal(), "Playout should finish the game")
			for _, p := range g.Players {
				require.Zero(t, p.Open, "Every category should be filled")
			}
		}
	})
}
