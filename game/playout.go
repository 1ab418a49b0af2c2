package game

import (
	"math/bits"

	"golang.org/x/exp/rand"
)

// Playout finishes the game with a random policy. Each step flips a coin
// between scoring a random achievable open category and rerolling a random
// non-empty subset of the dice; when neither is possible a random open
// category is forfeited.
func (g *Game) Playout(rng *rand.Rand) {
	for !g.IsTerminal() {
		g.playoutStep(rng)
	}
}

func (g *Game) playoutStep(rng *rand.Rand) {
	p := g.Player()
	scorable := g.Dice.Achievable() & p.Open
	canReroll := p.Rerolls > 0

	if scorable != 0 && (!canReroll || rng.Intn(2) == 0) {
		c := randomBit(scorable, rng)
		points, _ := Points(g.Dice, c)
		p.fill(c, points)
		g.advance(rng)
		return
	}
	if canReroll {
		// Bit i rerolls the i-th lowest die
		rerolled := uint8(rng.Intn(1<<NumDice-1) + 1)
		p.Rerolls--
		g.Dice = g.Dice.Reroll(g.Dice.HoldFromMask(rerolled), rng)
		return
	}
	p.fill(randomBit(p.Open, rng), 0)
	g.advance(rng)
}

func randomBit(mask uint32, rng *rand.Rand) Category {
	nth := rng.Intn(bits.OnesCount32(mask))
	for ; nth > 0; nth-- {
		mask &= mask - 1
	}
	return Category(bits.TrailingZeros32(mask))
}
