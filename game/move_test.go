package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	t.Run("reads what String writes", func(t *testing.T) {
		moves := []Move{
			RerollMove(Hold{0, 1, 2, 0, 0, 0}),
			ScoreMove(Chance, 21),
			ForfeitMove(MaxiYahtzee),
		}
		for _, m := range moves {
			got, err := ParseMove(m.String())
			require.NoError(t, err, "Should parse %q", m.String())
			require.Equal(t, m, got, "Should round trip %q", m.String())
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		inputs := []string{
			"",
			"jump",
			"reroll 1 2",
			"reroll 6 0 0 0 0 0",
			"score Chance",
			"score Nothing 3",
			"score Chance lots",
			"forfeit",
		}
		for _, input := range inputs {
			_, err := ParseMove(input)
			require.ErrorIs(t, err, ErrInvalidMoveFormat, "Should reject %q", input)
		}
	})
}
