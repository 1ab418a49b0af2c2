package lookup

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
	"golang.org/x/sync/errgroup"
)

const (
	// TopK is the number of holds recommended per (composition, open mask).
	TopK     = 6
	NumMasks = 1 << game.NumCategories

	fixedPointScale = 1 << 24
)

// Recommendations stores, for every open mask and composition, the indices
// into Entry.Holds of the best holds restricted to the open categories.
type Recommendations struct {
	best []uint8 // Mask major, TopK bytes per (mask, rank)
}

func newRecommendations(masks int) *Recommendations {
	return &Recommendations{best: make([]uint8, masks*game.NumStates*TopK)}
}

// masks is the number of open masks the table covers.
func (r *Recommendations) masks() int {
	return len(r.best) / (game.NumStates * TopK)
}

func offset(mask uint32, rank int) int {
	return (int(mask)*game.NumStates + rank) * TopK
}

// Best returns the recommended hold indices for a composition and open mask.
func (r *Recommendations) Best(rank int, mask uint32) [TopK]uint8 {
	if rank < 0 || rank >= game.NumStates || int(mask) >= r.masks() {
		panic(fmt.Sprintf("recommendation index out of range: rank %d mask %#x", rank, mask))
	}
	var top [TopK]uint8
	copy(top[:], r.best[offset(mask, rank):])
	return top
}

// BuildRecommendations fills the table for every mask, one composition per
// task. Each composition walks the masks in Gray code order so that each
// step adds or removes a single category from the running sums.
func BuildRecommendations(ctx context.Context, entries []Entry, workers int) (*Recommendations, error) {
	if len(entries) != game.NumStates {
		return nil, fmt.Errorf("%d outcome entries, expected %d: %w", len(entries), game.NumStates, ErrCardinalityMismatch)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()
	r := newRecommendations(NumMasks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for rank := range entries {
		g.Go(func() error {
			return r.fillRank(ctx, &entries[rank], rank)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build recommendation table: %w", err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Int("masks", NumMasks).Msg("built recommendation table")
	return r, nil
}

func (r *Recommendations) fillRank(ctx context.Context, entry *Entry, rank int) error {
	return walkMasks(ctx, entry, func(mask uint32, top [TopK]uint8) {
		copy(r.best[offset(mask, rank):], top[:])
	})
}

// walkMasks visits every open mask with the top holds of entry.
func walkMasks(ctx context.Context, entry *Entry, visit func(mask uint32, top [TopK]uint8)) error {
	evs := quantize(entry)
	sums := make([]int64, len(evs))
	visit(0, selectTop(sums))

	for i := uint32(1); i < NumMasks; i++ {
		if i&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		c := bits.TrailingZeros32(i)
		mask := i ^ (i >> 1)
		if mask&(1<<c) != 0 {
			for h := range sums {
				sums[h] += evs[h][c]
			}
		} else {
			for h := range sums {
				sums[h] -= evs[h][c]
			}
		}
		visit(mask, selectTop(sums))
	}
	return nil
}

// TopHolds computes the recommendation for one entry and mask directly.
func TopHolds(entry *Entry, mask uint32) [TopK]uint8 {
	evs := quantize(entry)
	sums := make([]int64, len(evs))
	for h := range evs {
		for open := mask; open != 0; open &= open - 1 {
			sums[h] += evs[h][bits.TrailingZeros32(open)]
		}
	}
	return selectTop(sums)
}

func quantize(entry *Entry) [][game.NumCategories]int64 {
	evs := make([][game.NumCategories]int64, len(entry.EVs))
	for h, row := range entry.EVs {
		for c, ev := range row {
			evs[h][c] = int64(math.Round(float64(ev) * fixedPointScale))
		}
	}
	return evs
}

// selectTop keeps the TopK highest scores in a sorted insertion buffer.
// Earlier holds win ties. With fewer than TopK holds the best is repeated.
func selectTop(scores []int64) [TopK]uint8 {
	var top [TopK]uint8
	var topScores [TopK]int64
	found := 0
	for h, score := range scores {
		if found == TopK && score <= topScores[TopK-1] {
			continue
		}
		i := found
		if found < TopK {
			found++
		} else {
			i = TopK - 1
		}
		for i > 0 && score > topScores[i-1] {
			top[i] = top[i-1]
			topScores[i] = topScores[i-1]
			i--
		}
		top[i] = uint8(h)
		topScores[i] = score
	}
	for i := found; i < TopK; i++ {
		top[i] = top[0]
	}
	return top
}
