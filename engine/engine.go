package engine

import (
	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/searcher"
)

// MaxMoves bounds a game per player: every turn fills one category after at
// most MaxRerolls rerolls.
const MaxMoves = game.Rounds * (game.MaxRerolls + 1)

type Engine interface {
	// Run plays a game to the end
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Agent picks moves for one seat.
type Agent interface {
	Search(g *game.Game) (searcher.Policy, metrics.SearchMetric)
}
