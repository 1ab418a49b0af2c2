package searcher

import (
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// cursor hands out a node's untried moves one at a time: scores first, then
// recommended rerolls, then forfeits. Forfeit order is drawn only when the
// first two groups run out.
type cursor struct {
	categories []game.CategoryEntry
	category   int
	rerolls    []game.Hold
	reroll     int
	forfeits   []game.Category
	forfeit    int

	open   uint32
	seed   uint64
	ranked bool // forfeits drawn
}

func newCursor(g *game.Game, advisor Advisor) cursor {
	if g.IsTerminal() {
		return cursor{ranked: true}
	}
	p := g.Player()

	c := cursor{
		open: p.Open,
		seed: forfeitSeed(p.Open, g.Dice.Rank(), g.Round),
	}
	for _, e := range advisor.Categories(g.Dice) {
		if p.IsOpen(e.Category) {
			c.categories = append(c.categories, e)
		}
	}
	if p.Rerolls > 0 {
		for _, h := range advisor.Rerolls(g.Dice, p.Open) {
			if h.Rolled() > 0 && !slices.Contains(c.rerolls, h) {
				c.rerolls = append(c.rerolls, h)
			}
			if len(c.rerolls) == MaxRerollCandidates {
				break
			}
		}
	}
	return c
}

func forfeitSeed(open uint32, rank int, round int) uint64 {
	return uint64(open)<<32 | uint64(rank)<<8 | uint64(round)
}

// hasNext reports whether any move is left untried.
func (c *cursor) hasNext() bool {
	if c.category < len(c.categories) || c.reroll < len(c.rerolls) {
		return true
	}
	c.rankForfeits()
	return c.forfeit < len(c.forfeits)
}

// next returns the next untried move and advances past it.
func (c *cursor) next() (game.Move, bool) {
	if c.category < len(c.categories) {
		e := c.categories[c.category]
		c.category++
		return game.ScoreMove(e.Category, e.Points), true
	}
	if c.reroll < len(c.rerolls) {
		h := c.rerolls[c.reroll]
		c.reroll++
		return game.RerollMove(h), true
	}
	c.rankForfeits()
	if c.forfeit < len(c.forfeits) {
		category := c.forfeits[c.forfeit]
		c.forfeit++
		return game.ForfeitMove(category), true
	}
	return game.Move{}, false
}

// rankForfeits orders the open categories for forfeiting: the cheap ones
// in a shuffled order, then the protective ones, also shuffled. The shuffle
// only depends on the open mask, the dice and the round.
func (c *cursor) rankForfeits() {
	if c.ranked {
		return
	}
	c.ranked = true

	var cheap, protective []game.Category
	for category := game.Category(0); category < game.NumCategories; category++ {
		if c.open&category.Bit() == 0 {
			continue
		}
		if game.Protective&category.Bit() != 0 {
			protective = append(protective, category)
		} else {
			cheap = append(cheap, category)
		}
	}

	src := &rand.PCGSource{}
	src.Seed(c.seed)
	rng := rand.New(src)
	rng.Shuffle(len(cheap), func(i, j int) { cheap[i], cheap[j] = cheap[j], cheap[i] })
	rng.Shuffle(len(protective), func(i, j int) { protective[i], protective[j] = protective[j], protective[i] })

	c.forfeits = append(cheap, protective...)
}
