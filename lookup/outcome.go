// Package lookup builds and caches the dice outcome table and the reroll
// recommendation table.
package lookup

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"golang.org/x/sync/errgroup"
)

// EVs is the expected score of each category after a reroll.
type EVs [game.NumCategories]float32

// Entry is everything known about one dice composition.
type Entry struct {
	Categories []game.CategoryEntry // Desirable categories, best first
	Holds      []game.Hold          // Distinct holds, highest total EV first
	EVs        []EVs                // EVs[i] belongs to Holds[i]
	Mask       uint32               // Every achievable category
}

// totalResolution is the grid hold totals are rounded to before ranking.
// Holds whose totals land on the same grid point keep enumeration order.
const totalResolution = 1 << 16

// totalKey is the rounded sum of a stored EV row in units of 1/totalResolution.
func totalKey(evs *EVs) int64 {
	sum := 0.0
	for _, ev := range evs {
		sum += float64(ev)
	}
	return int64(math.Round(sum * totalResolution))
}

// Total is the summed EV of Holds[i] over all categories, at the resolution
// the holds are ranked by.
func (e *Entry) Total(i int) float64 {
	return float64(totalKey(&e.EVs[i])) / totalResolution
}

// BuildOutcomes computes the entry of every dice composition, indexed by rank.
// Categories are derived for all compositions before any EV is computed.
func BuildOutcomes(ctx context.Context, workers int) ([]Entry, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()

	entries := make([]Entry, game.NumStates)
	for rank := range entries {
		d := game.DiceAt(rank)
		entries[rank].Categories = game.Desirable(game.Derive(d))
		entries[rank].Mask = d.Achievable()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for rank := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			computeEVs(entries, rank)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build outcome table: %w", err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Int("entries", len(entries)).Msg("built outcome table")
	return entries, nil
}

type rankedHold struct {
	hold  game.Hold
	evs   EVs
	total int64
}

// computeEVs fills the holds of entries[rank]. It only reads the category
// lists of other entries.
func computeEVs(entries []Entry, rank int) {
	d := game.DiceAt(rank)
	holds := d.Holds()
	ranked := make([]rankedHold, len(holds))

	for i, h := range holds {
		var sums [game.NumCategories]float64
		for _, r := range outcomes(h) {
			target := &entries[game.Dice(r.faces).Rank()]
			for _, e := range target.Categories {
				sums[e.Category] += r.probability * float64(e.Points)
			}
		}

		ranked[i].hold = h
		for c, sum := range sums {
			ranked[i].evs[c] = float32(sum)
		}
		ranked[i].total = totalKey(&ranked[i].evs)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total > ranked[j].total
	})

	entry := &entries[rank]
	entry.Holds = make([]game.Hold, len(ranked))
	entry.EVs = make([]EVs, len(ranked))
	for i, r := range ranked {
		entry.Holds[i] = r.hold
		entry.EVs[i] = r.evs
	}
}

// Expectation summarises one category over a fresh roll of all dice.
type Expectation struct {
	Category game.Category
	EV       float64 // Probability weighted score
	Average  float64 // Mean score over the compositions that offer it
}

// CategoryExpectations computes the EV of every category from a single
// throw of six dice, counting only the desirable categories of each entry.
func CategoryExpectations(entries []Entry) [game.NumCategories]Expectation {
	var result [game.NumCategories]Expectation
	var counts [game.NumCategories]int
	for c := range result {
		result[c].Category = game.Category(c)
	}

	for _, r := range weightedRolls[game.NumDice] {
		entry := &entries[game.Dice(r.faces).Rank()]
		for _, e := range entry.Categories {
			result[e.Category].EV += r.probability * float64(e.Points)
			result[e.Category].Average += float64(e.Points)
			counts[e.Category]++
		}
	}

	for c := range result {
		if counts[c] > 0 {
			result[c].Average /= float64(counts[c])
		}
	}
	return result
}
