package searcher

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	advisor     Advisor
	goroutines  int
	duration    time.Duration
	episodes    int
	rewardScale float64
	seed        uint64
	seeded      bool
	metrics     metrics.Collector
	trace       io.Writer
	root        *node // Tree of the first worker in the last search
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes runs a fixed number of iterations split across workers
// instead of a time budget.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithRewardScale normalizes mean scores by a fixed divisor instead of the
// observed score range.
func WithRewardScale(divisor float64) Option {
	return func(m *MCTS) {
		if divisor > 0 {
			m.rewardScale = divisor
		}
	}
}

// WithSeed makes worker seeds derive from seed instead of system entropy.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.seeded = true
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithTrace writes a YAML summary of every decision to w.
func WithTrace(w io.Writer) Option {
	return func(m *MCTS) {
		m.trace = w
	}
}

func NewMCTS(advisor Advisor, goroutines int, options ...Option) *MCTS {
	if goroutines < 1 {
		goroutines = 1
	}
	m := &MCTS{ // Default values
		advisor:    advisor,
		goroutines: goroutines,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// ChooseMove searches g and returns the most visited root move. g must not
// be terminal.
func (m *MCTS) ChooseMove(g *game.Game) game.Move {
	policy, _ := m.Search(g)
	return policy.Best().Move
}

// Search grows one tree per worker from g and merges their root statistics.
func (m *MCTS) Search(g *game.Game) (Policy, metrics.SearchMetric) {
	if g.IsTerminal() {
		panic("cannot search a terminal game")
	}

	roots := make([]*node, m.goroutines)
	seeds := m.workerSeeds()

	m.metrics.Start(m.goroutines)
	var wg sync.WaitGroup
	for i := range roots {
		roots[i] = newNode(nil, game.Move{}, g.Clone(), m.advisor)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.grow(roots[i], rand.New(rand.NewSource(seeds[i])), m.quota(i))
		}()
	}
	wg.Wait()

	policy := merge(roots)
	m.metrics.SetVisits(policy.Visits())
	metric := m.metrics.Complete()
	m.root = roots[0]

	best := policy.Best()
	log.Debug().
		Int("round", g.Round).
		Int("player", g.Current).
		Str("dice", g.Dice.String()).
		Str("move", best.Move.String()).
		Int("visits", best.Visits).
		Float64("mean", best.Mean()).
		Msg("chose move")
	if m.trace != nil {
		if err := writeTrace(m.trace, g, policy); err != nil {
			log.Warn().Err(err).Msg("failed to write decision trace")
		}
	}
	return policy, metric
}

func (m *MCTS) workerSeeds() []uint64 {
	seeds := make([]uint64, m.goroutines)
	if m.seeded {
		src := rand.New(rand.NewSource(m.seed))
		for i := range seeds {
			seeds[i] = src.Uint64()
		}
		return seeds
	}
	for i := range seeds {
		seeds[i] = frand.Uint64n(1<<63) | 1
	}
	return seeds
}

// quota is the number of episodes worker i runs, or 0 for a time budget.
func (m *MCTS) quota(i int) int {
	if m.episodes <= 0 {
		return 0
	}
	quota := m.episodes / m.goroutines
	if i < m.episodes%m.goroutines {
		quota++
	}
	return max(quota, 1)
}

// grow runs iterations until the quota or the deadline is reached. The
// iteration in flight at the deadline always completes, and every worker
// completes at least one.
func (m *MCTS) grow(root *node, rng *rand.Rand, quota int) {
	s := newScale(m.rewardScale)
	player := root.state.Current
	start := time.Now()
	for episode := 0; ; episode++ {
		if quota > 0 && episode >= quota {
			return
		}
		if quota == 0 && episode > 0 && time.Since(start) >= m.duration {
			return
		}
		m.simulate(root, player, s, rng)
		m.metrics.AddEpisode()
	}
}

func (m *MCTS) simulate(root *node, player int, s *scale, rng *rand.Rand) {
	leaf := m.selectThenExpand(root, s, rng)
	reward := rollout(leaf.state, player, rng)
	s.observe(reward)
	leaf.backup(reward)
}

func (m *MCTS) selectThenExpand(root *node, s *scale, rng *rand.Rand) *node {
	n := root
	for !n.isLeaf() {
		n = n.bestChild(s)
	}
	if n.state.IsTerminal() {
		return n
	}
	m.metrics.AddNode()
	return n.expand(m.advisor, rng)
}

// rollout plays a copy of state to the end at random and returns the final
// total of player.
func rollout(state *game.Game, player int, rng *rand.Rand) float64 {
	sim := state.Clone()
	sim.Playout(rng)
	return float64(sim.Total(player))
}
