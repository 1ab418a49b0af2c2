// Package config reads run settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"github.com/vilhelmlindell/maxi-yahtzee/lookup"
)

type Config struct {
	Workers        int           `env:"YAHTZEE_WORKERS"          envDefault:"8"`
	MoveDuration   time.Duration `env:"YAHTZEE_MOVE_DURATION"    envDefault:"10ms"`
	MoveEpisodes   int           `env:"YAHTZEE_MOVE_EPISODES"    envDefault:"0"`
	RewardScale    float64       `env:"YAHTZEE_REWARD_SCALE"     envDefault:"0"`
	Games          int           `env:"YAHTZEE_GAMES"            envDefault:"1000"`
	Players        int           `env:"YAHTZEE_PLAYERS"          envDefault:"1"`
	ScoreToBeat    int           `env:"YAHTZEE_SCORE_TO_BEAT"    envDefault:"200"`
	Seed           uint64        `env:"YAHTZEE_SEED"             envDefault:"0"`
	OutcomeCache   string        `env:"YAHTZEE_OUTCOME_CACHE"    envDefault:"outcomes.bin"`
	RecommendCache string        `env:"YAHTZEE_RECOMMEND_CACHE"  envDefault:"recommendations.bin"`
	TraceDir       string        `env:"YAHTZEE_TRACE_DIR"`
	ResultsDir     string        `env:"YAHTZEE_RESULTS_DIR"      envDefault:"results"`
	Debug          bool          `env:"YAHTZEE_DEBUG"            envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.MoveDuration <= 0 && c.MoveEpisodes <= 0 {
		errs = append(errs, errors.New("must specify a move duration or episodes"))
	}
	if c.Games < 1 {
		errs = append(errs, fmt.Errorf("games must be positive, got %d", c.Games))
	}
	if c.Players < 1 {
		errs = append(errs, fmt.Errorf("players must be positive, got %d", c.Players))
	}
	if c.RewardScale < 0 {
		errs = append(errs, fmt.Errorf("reward scale must not be negative, got %g", c.RewardScale))
	}
	if c.OutcomeCache == "" {
		errs = append(errs, errors.New("outcome cache path is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Paths points the lookup tables at the configured cache files. An empty
// recommendation cache makes reroll advice computed on demand.
func (c Config) Paths() lookup.Paths {
	return lookup.Paths{Outcomes: c.OutcomeCache, Recommendations: c.RecommendCache}
}

// SingleScoreToBeat reports the target score, the game default when unset.
func (c Config) SingleScoreToBeat() int {
	if c.ScoreToBeat <= 0 {
		return game.DefaultScoreToBeat
	}
	return c.ScoreToBeat
}
