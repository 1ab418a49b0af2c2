package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/config"
	"github.com/vilhelmlindell/maxi-yahtzee/engine"
	"github.com/vilhelmlindell/maxi-yahtzee/experiments"
	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/lookup"
	"github.com/vilhelmlindell/maxi-yahtzee/searcher"
	"golang.org/x/exp/rand"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"lukechampine.com/frand"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	mode := flag.String("mode", "play", "One of play, expectations, parallelization, strength")
	flag.IntVar(&cfg.Workers, "goroutines", cfg.Workers, "Number of goroutines searching each move")
	flag.DurationVar(&cfg.MoveDuration, "duration", cfg.MoveDuration, "Search time per move")
	flag.IntVar(&cfg.MoveEpisodes, "episodes", cfg.MoveEpisodes, "Search episodes per move, overrides duration")
	flag.Float64Var(&cfg.RewardScale, "reward-scale", cfg.RewardScale, "Fixed reward divisor, adaptive when zero")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "Number of games to play")
	flag.IntVar(&cfg.Players, "players", cfg.Players, "Number of players per game")
	flag.IntVar(&cfg.ScoreToBeat, "score-to-beat", cfg.ScoreToBeat, "Single player target score")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for dice and search, random when zero")
	flag.StringVar(&cfg.OutcomeCache, "outcomes", cfg.OutcomeCache, "Outcome table cache file")
	flag.StringVar(&cfg.RecommendCache, "recommendations", cfg.RecommendCache, "Reroll recommendation cache file, computed on demand when empty")
	flag.StringVar(&cfg.TraceDir, "trace", cfg.TraceDir, "Directory for search tree dumps")
	flag.StringVar(&cfg.ResultsDir, "results", cfg.ResultsDir, "Directory for experiment results")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log every decision")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tables, err := lookup.BuildOrLoad(ctx, cfg.Paths(), runtime.NumCPU())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare lookup tables")
	}

	switch *mode {
	case "play":
		err = play(ctx, cfg, tables)
	case "expectations":
		printExpectations(tables)
	case "parallelization":
		err = runExperiment(cfg, tables, experiments.RunParallelization)
	case "strength":
		err = runExperiment(cfg, tables, experiments.RunParallelizationToStrength)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

// newAgent builds the searcher for one seat. trace may be nil.
func newAgent(cfg config.Config, advisor searcher.Advisor, seat int, trace io.Writer) *searcher.MCTS {
	options := []searcher.Option{searcher.WithMetrics()}
	if trace != nil {
		options = append(options, searcher.WithTrace(trace))
	}
	if cfg.MoveEpisodes > 0 {
		options = append(options, searcher.WithEpisodes(cfg.MoveEpisodes))
	} else {
		options = append(options, searcher.WithDuration(cfg.MoveDuration))
	}
	if cfg.RewardScale > 0 {
		options = append(options, searcher.WithRewardScale(cfg.RewardScale))
	}
	if cfg.Seed != 0 {
		options = append(options, searcher.WithSeed(cfg.Seed+uint64(seat)))
	}
	return searcher.NewMCTS(advisor, cfg.Workers, options...)
}

// play runs games back to back and reports the running average score.
func play(ctx context.Context, cfg config.Config, tables *lookup.Tables) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = frand.Uint64n(1<<63) | 1
	}
	rng := rand.New(rand.NewSource(seed))
	p := message.NewPrinter(language.English)

	average := 0.0
	beats := 0
	for i := 0; i < cfg.Games; i++ {
		if ctx.Err() != nil {
			log.Info().Int("games", i).Msg("interrupted")
			return nil
		}

		traceDir := ""
		if cfg.TraceDir != "" {
			traceDir = filepath.Join(cfg.TraceDir, fmt.Sprintf("game-%04d", i+1))
			if err := os.MkdirAll(traceDir, 0755); err != nil {
				return fmt.Errorf("failed to create trace directory: %w", err)
			}
		}

		agents := make([]engine.Agent, cfg.Players)
		var traces []*os.File
		for seat := range agents {
			var trace io.Writer
			if traceDir != "" {
				f, err := os.Create(filepath.Join(traceDir, fmt.Sprintf("decisions-p%d.yaml", seat+1)))
				if err != nil {
					return fmt.Errorf("failed to create decision trace: %w", err)
				}
				traces = append(traces, f)
				trace = f
			}
			agents[seat] = newAgent(cfg, tables, seat, trace)
		}
		e := engine.LocalEngine(agents, rng, cfg.SingleScoreToBeat())
		e.TraceDir = traceDir

		gameMetric, moveMetrics, err := e.Run()
		for _, f := range traces {
			f.Close()
		}
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		if gameMetric.Beat {
			beats++
		}

		best := gameMetric.Scores[gameMetric.Winner]
		average += (float64(best) - average) / float64(i+1)

		fmt.Println(scoreSheet(e.State))
		visits, searching := searchTotals(moveMetrics)
		p.Printf("score %d, %d visits in %v = %.0f vps\n", best, visits, searching.Round(time.Millisecond), float64(visits)/searching.Seconds())
		p.Printf("average score %.2f over %d games, %d beat %d\n\n", average, i+1, beats, cfg.SingleScoreToBeat())
	}
	return nil
}

func searchTotals(moveMetrics []metrics.MoveMetric) (int, time.Duration) {
	visits := 0
	var searching time.Duration
	for _, m := range moveMetrics {
		visits += m.Visits
		searching += m.Duration
	}
	if searching <= 0 {
		searching = time.Nanosecond
	}
	return visits, searching
}

func scoreSheet(g *game.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s", "")
	for i := range g.Players {
		fmt.Fprintf(&b, "%6s", fmt.Sprintf("P%d", i+1))
	}
	b.WriteString("\n")
	for c := game.Category(0); c < game.NumCategories; c++ {
		fmt.Fprintf(&b, "%-16s", c)
		for _, p := range g.Players {
			fmt.Fprintf(&b, "%6d", p.Scores[c])
		}
		b.WriteString("\n")
		if c != game.Sixes {
			continue
		}
		fmt.Fprintf(&b, "%-16s", "Bonus")
		for _, p := range g.Players {
			bonus := 0
			if p.Subtotal() >= game.BonusThreshold {
				bonus = game.Bonus
			}
			fmt.Fprintf(&b, "%6d", bonus)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%-16s", "Total")
	for i := range g.Players {
		fmt.Fprintf(&b, "%6d", g.Total(i))
	}
	return b.String()
}

func printExpectations(tables *lookup.Tables) {
	p := message.NewPrinter(language.English)
	p.Printf("%-16s %10s %10s\n", "category", "ev", "average")
	for _, e := range lookup.CategoryExpectations(tables.Outcomes) {
		p.Printf("%-16s %10.3f %10.3f\n", e.Category, e.EV, e.Average)
	}
}

func runExperiment(cfg config.Config, tables *lookup.Tables, run func(searcher.Advisor, experiments.Settings) ([]experiments.Summary, error)) error {
	summaries, err := run(tables, experiments.Settings{
		Games:       cfg.Games,
		ScoreToBeat: cfg.SingleScoreToBeat(),
		OutputDir:   cfg.ResultsDir,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return err
	}
	experiments.PrintSummaries(os.Stdout, summaries)
	return nil
}
