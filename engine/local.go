package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/searcher"
	"golang.org/x/exp/rand"
)

var (
	_ Engine = (*Local)(nil)
	_ Agent  = (*searcher.MCTS)(nil)
	_ Agent  = (*Random)(nil)
)

type Local struct {
	State       *game.Game
	Agents      []Agent
	ScoreToBeat int
	TraceDir    string // Tree dumps are written here when set
	rng         *rand.Rand
}

// LocalEngine seats one agent per player and rolls the first dice.
func LocalEngine(agents []Agent, rng *rand.Rand, scoreToBeat int) *Local {
	if len(agents) < 1 {
		panic("need at least one agent")
	}
	return &Local{
		State:       game.NewGame(len(agents), rng),
		Agents:      agents,
		ScoreToBeat: scoreToBeat,
		rng:         rng,
	}
}

type dotWriter interface {
	WriteDOT(w io.Writer, maxDepth int) error
}

// Run executes the entire game loop until every category is filled.
func (e *Local) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		Players:   len(e.Agents),
		StartTime: time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	limit := MaxMoves * len(e.Agents)
	step := 1
	for !e.State.IsTerminal() {
		if step > limit {
			return gameMetric, moveMetrics, fmt.Errorf("game still running after %d moves", limit)
		}
		player := e.State.Current
		round := e.State.Round

		policy, searchMetric := e.Agents[player].Search(e.State)
		best := policy.Best()
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Round:        round,
			Move:         best.Move.String(),
			Mean:         best.Mean(),
			SearchMetric: searchMetric,
		})
		e.dumpTree(player, step)

		log.Debug().Msgf("round %d player %d dice %s: %s", round, player, e.State.Dice, best.Move)
		if err := e.State.Apply(best.Move, e.rng); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("agent %d chose an illegal move %s: %w", player, best.Move, err)
		}
		step++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step - 1
	gameMetric.Winner = e.State.Winner()
	for i := range e.State.Players {
		gameMetric.Scores = append(gameMetric.Scores, e.State.Total(i))
	}
	if len(e.Agents) == 1 {
		gameMetric.Beat = e.State.Beats(e.ScoreToBeat)
	}

	log.Info().Msgf("game over after %d moves: scores %v, winner player %d", gameMetric.TotalMoves, gameMetric.Scores, gameMetric.Winner)
	return gameMetric, moveMetrics, nil
}

func (e *Local) dumpTree(player, step int) {
	if e.TraceDir == "" {
		return
	}
	agent, ok := e.Agents[player].(dotWriter)
	if !ok {
		return
	}
	path := filepath.Join(e.TraceDir, fmt.Sprintf("step-%03d.dot", step))
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to create tree dump")
		return
	}
	defer f.Close()
	if err := agent.WriteDOT(f, 2); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write tree dump")
	}
}

// Random picks a uniformly random legal move. It is the baseline agent.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Search(g *game.Game) (searcher.Policy, metrics.SearchMetric) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		panic("No legal moves at all!")
	}
	move := moves[r.rng.Intn(len(moves))]
	return searcher.Policy{{Move: move, Visits: 1}}, metrics.SearchMetric{Goroutines: 1}
}
