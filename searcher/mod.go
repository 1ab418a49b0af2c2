// Package searcher picks moves with parallel Monte Carlo tree search. Each
// worker grows its own tree and the root statistics are merged by move.
package searcher

import (
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/lookup"
)

// MaxRerollCandidates caps the reroll moves a node will ever expand.
const MaxRerollCandidates = lookup.TopK

// Advisor orders the moves a node expands. *lookup.Tables implements it.
type Advisor interface {
	// Categories lists the desirable categories of the dice, best first.
	Categories(d game.Dice) []game.CategoryEntry
	// Rerolls lists the recommended holds for the open categories.
	Rerolls(d game.Dice, open uint32) [lookup.TopK]game.Hold
}
