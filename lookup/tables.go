package lookup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
)

// Paths locates the cache files. An empty Recommendations path skips the
// recommendation table and answers queries on demand from the outcomes.
type Paths struct {
	Outcomes        string
	Recommendations string
}

func DefaultPaths() Paths {
	return Paths{
		Outcomes:        "outcomes.bin",
		Recommendations: "recommendations.bin",
	}
}

// Tables is read only once built and safe for concurrent use.
type Tables struct {
	Outcomes        []Entry
	Recommendations *Recommendations
}

// BuildOrLoad loads both tables from their caches. A cache that is missing,
// unreadable or of the wrong size is rebuilt and saved. A failed save is
// logged and the rebuilt table is still returned.
func BuildOrLoad(ctx context.Context, paths Paths, workers int) (*Tables, error) {
	outcomes, err := LoadOutcomes(paths.Outcomes)
	if err != nil {
		log.Info().Err(err).Str("path", paths.Outcomes).Msg("outcome cache miss, rebuilding")
		if outcomes, err = BuildOutcomes(ctx, workers); err != nil {
			return nil, err
		}
		if err := SaveOutcomes(paths.Outcomes, outcomes); err != nil {
			log.Warn().Err(err).Str("path", paths.Outcomes).Msg("failed to save outcome cache")
		}
	} else {
		log.Info().Str("path", paths.Outcomes).Msg("loaded outcome table from cache")
	}

	t := &Tables{Outcomes: outcomes}
	if paths.Recommendations == "" {
		return t, nil
	}

	t.Recommendations, err = LoadRecommendations(paths.Recommendations)
	if err != nil {
		log.Info().Err(err).Str("path", paths.Recommendations).Msg("recommendation cache miss, rebuilding")
		if t.Recommendations, err = BuildRecommendations(ctx, outcomes, workers); err != nil {
			return nil, err
		}
		if err := SaveRecommendations(paths.Recommendations, t.Recommendations); err != nil {
			log.Warn().Err(err).Str("path", paths.Recommendations).Msg("failed to save recommendation cache")
		}
	} else {
		log.Info().Str("path", paths.Recommendations).Msg("loaded recommendation table from cache")
	}
	return t, nil
}

func (t *Tables) Entry(d game.Dice) *Entry {
	return &t.Outcomes[d.Rank()]
}

// Categories lists the desirable categories of the dice, best first.
func (t *Tables) Categories(d game.Dice) []game.CategoryEntry {
	return t.Entry(d).Categories
}

// Rerolls returns the recommended holds for the dice given the open
// categories, best first. Repeats are possible.
func (t *Tables) Rerolls(d game.Dice, open uint32) [TopK]game.Hold {
	rank := d.Rank()
	entry := &t.Outcomes[rank]

	var top [TopK]uint8
	if t.Recommendations != nil {
		top = t.Recommendations.Best(rank, open)
	} else {
		top = TopHolds(entry, open)
	}

	var holds [TopK]game.Hold
	for i, h := range top {
		if int(h) >= len(entry.Holds) {
			panic(fmt.Sprintf("hold index %d out of range for %d holds", h, len(entry.Holds)))
		}
		holds[i] = entry.Holds[h]
	}
	return holds
}
