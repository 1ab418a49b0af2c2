package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vilhelmlindell/maxi-yahtzee/game"
)

func TestSelectTop(t *testing.T) {
	t.Run("keeps the highest scores in order", func(t *testing.T) {
		scores := []int64{5, 1, 9, 3, 7, 2, 8, 6}
		require.Equal(t, [TopK]uint8{2, 6, 4, 7, 0, 3}, selectTop(scores), "Should pick the six best")
	})

	t.Run("earlier entries win ties", func(t *testing.T) {
		scores := []int64{4, 4, 4, 4, 4, 4, 4, 4}
		require.Equal(t, [TopK]uint8{0, 1, 2, 3, 4, 5}, selectTop(scores), "Should keep enumeration order")
	})

	t.Run("repeats the best when short", func(t *testing.T) {
		scores := []int64{1, 3}
		require.Equal(t, [TopK]uint8{1, 0, 1, 1, 1, 1}, selectTop(scores), "Should fill with the best entry")
	})
}

func TestTopHolds(t *testing.T) {
	entries := testOutcomes(t)

	t.Run("restricts to the open categories", func(t *testing.T) {
		e := &entries[game.Dice{1, 1, 1, 1, 1, 1}.Rank()]
		mask := game.Straight.Bit()
		top := TopHolds(e, mask)

		best := e.EVs[top[0]][game.Straight]
		for _, row := range e.EVs {
			require.LessOrEqual(t, row[game.Straight], best+1e-6, "No hold should beat the top hold on the open category")
		}
		require.InDelta(t, 21.0/6.0, best, 1e-4, "Rolling one die of the straight completes it once in six")
	})

	t.Run("gray code walk matches direct selection", func(t *testing.T) {
		ranks := []int{game.Dice{0, 0, 0, 0, 0, 6}.Rank(), game.Dice{2, 0, 1, 1, 0, 2}.Rank()}
		if !testing.Short() {
			ranks = append(ranks, game.Dice{1, 1, 1, 1, 1, 1}.Rank())
		}
		for _, rank := range ranks {
			e := &entries[rank]
			visited := 0
			err := walkMasks(context.Background(), e, func(mask uint32, top [TopK]uint8) {
				visited++
				if mask%4099 == 0 || mask == NumMasks-1 {
					require.Equal(t, TopHolds(e, mask), top, "Walk should match direct selection at mask %#x", mask)
				}
			})
			require.NoError(t, err, "Walk should complete")
			require.Equal(t, NumMasks, visited, "Walk should visit every mask")
		}
	})

	t.Run("stops when canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := walkMasks(ctx, &entries[0], func(uint32, [TopK]uint8) {})
		require.ErrorIs(t, err, context.Canceled, "Should report cancellation")
	})
}
