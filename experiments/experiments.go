package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/engine"
	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"github.com/vilhelmlindell/maxi-yahtzee/searcher"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

const (
	NumGames   = 100 // Per match up
	TimeBudget = 10 * time.Millisecond
)

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Goroutines: 1, Duration: TimeBudget},
	{ID: 2, Goroutines: 2, Duration: TimeBudget},
	{ID: 3, Goroutines: 4, Duration: TimeBudget},
	{ID: 4, Goroutines: 8, Duration: TimeBudget},
	{ID: 5, Goroutines: 16, Duration: TimeBudget},
	{ID: 6, Goroutines: 32, Duration: TimeBudget},
}

type Settings struct {
	Games       int // Per match up, NumGames when zero
	ScoreToBeat int
	OutputDir   string
	Seed        uint64 // Seeds the game dice, system entropy when zero
}

// RunParallelization plays single player games with every goroutine count
// and reports the score each one reaches under the same time budget.
func RunParallelization(advisor searcher.Advisor, settings Settings) ([]Summary, error) {
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{config})
	}
	return runExperiment("parallelization", advisor, settings, parallelConfigs, matchUps)
}

// RunParallelizationToStrength pairs every goroutine count against the
// sequential baseline in two player games.
func RunParallelizationToStrength(advisor searcher.Advisor, settings Settings) ([]Summary, error) {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: TimeBudget}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return runExperiment("parallelization_to_strength", advisor, settings, append([]metrics.AgentConfig{baseline}, parallelConfigs...), matchUps)
}

func runExperiment(name string, advisor searcher.Advisor, settings Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) ([]Summary, error) {
	games := settings.Games
	if games <= 0 {
		games = NumGames
	}
	seed := settings.Seed
	if seed == 0 {
		seed = frand.Uint64n(1<<63) | 1
	}
	rng := rand.New(rand.NewSource(seed))

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment with seed %d...", name, seed)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agents %+v...", mi+1, len(matchUps), matchup)

		for i := 0; i < games; i++ {
			seated := seatOrder(matchup, i)
			gameMetric, moveMetrics, err := runGame(advisor, seated, rng, settings.ScoreToBeat)
			if err != nil {
				return nil, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++

			ids := make([]int, len(seated))
			for seat, config := range seated {
				ids[seat] = config.ID
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agents:     ids,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Debug().Msgf("completed matchup %d of %d game %d with scores %v", mi+1, len(matchUps), i+1, gameMetric.Scores)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	if settings.OutputDir != "" {
		if err := store(settings.OutputDir, name, configs, gameRecords, moveRecords); err != nil {
			return nil, err
		}
	}
	return Summarize(configs, gameRecords, moveRecords), nil
}

func store(root, name string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return nil
}

// seatOrder rotates the matchup by one seat per game so every agent starts
// equally often.
func seatOrder(matchup []metrics.AgentConfig, game int) []metrics.AgentConfig {
	seated := make([]metrics.AgentConfig, len(matchup))
	for seat := range seated {
		seated[seat] = matchup[(seat+game)%len(matchup)]
	}
	return seated
}

// runGame plays one game with one agent per seat.
func runGame(advisor searcher.Advisor, matchup []metrics.AgentConfig, rng *rand.Rand, scoreToBeat int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := make([]engine.Agent, len(matchup))
	for seat, config := range matchup {
		agents[seat] = createMCTS(advisor, config)
	}
	e := engine.LocalEngine(agents, rng, scoreToBeat)
	return e.Run()
}

func createMCTS(advisor searcher.Advisor, config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.RewardScale > 0 {
		options = append(options, searcher.WithRewardScale(config.RewardScale))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(advisor, config.Goroutines, options...)
}
