package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(0.5, 10)

		expected := 0.5 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute mean + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Panics(t, func() {
			policy.evaluate(0.5, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		// More parent visits -> higher exploration
		policy1 := newUCT(2.0, 100)
		policy2 := newUCT(2.0, 1000)

		score1 := policy1.evaluate(0.5, 10)
		score2 := policy2.evaluate(0.5, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		// More child visits -> lower exploration
		policy := newUCT(2.0, 100)

		score1 := policy.evaluate(0.5, 10)
		score2 := policy.evaluate(0.5, 20)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("strictly increasing in mean reward", func(t *testing.T) {
		policy := newUCT(CSquared, 50)
		previous := math.Inf(-1)
		for mean := 0.0; mean <= 1.0; mean += 0.05 {
			got := policy.evaluate(mean, 7)
			require.Greater(t, got, previous, "UCT should grow with the mean at %.2f", mean)
			previous = got
		}
	})
}

func TestScale(t *testing.T) {
	t.Run("bootstrap without observations", func(t *testing.T) {
		s := newScale(0)
		require.Equal(t, 0.5, s.normalize(123), "Should return 0.5 before any reward")

		s.observe(150)
		require.Equal(t, 0.5, s.normalize(150), "Should return 0.5 without spread")
	})

	t.Run("running bounds", func(t *testing.T) {
		s := newScale(0)
		s.observe(100)
		s.observe(300)
		s.observe(200)

		require.InDelta(t, 0.0, s.normalize(100), 1e-9, "Minimum should map to 0")
		require.InDelta(t, 1.0, s.normalize(300), 1e-9, "Maximum should map to 1")
		require.InDelta(t, 0.25, s.normalize(150), 1e-9, "Should interpolate between bounds")
	})

	t.Run("fixed divisor", func(t *testing.T) {
		s := newScale(300)
		s.observe(10)
		s.observe(20)
		require.InDelta(t, 0.5, s.normalize(150), 1e-9, "Should divide by the fixed scale")
	})
}
