package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

// evaluate takes the child's mean reward already scaled to [0, 1].
func (u uct) evaluate(mean float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = mean + sqrt(c^2*ln(N)/n)
	return mean + math.Sqrt(u.numerator/n)
}

// scale maps raw scores to [0, 1], either by a fixed divisor or by the
// smallest and largest rewards seen in the tree so far.
type scale struct {
	divisor  float64
	min, max float64
	observed bool
}

func newScale(divisor float64) *scale {
	return &scale{divisor: divisor}
}

func (s *scale) observe(reward float64) {
	if !s.observed {
		s.min, s.max = reward, reward
		s.observed = true
		return
	}
	s.min = math.Min(s.min, reward)
	s.max = math.Max(s.max, reward)
}

func (s *scale) normalize(mean float64) float64 {
	if s.divisor > 0 {
		return mean / s.divisor
	}
	if !s.observed || s.max == s.min {
		return 0.5
	}
	return (mean - s.min) / (s.max - s.min)
}
