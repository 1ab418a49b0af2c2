package lookup

import "github.com/vilhelmlindell/maxi-yahtzee/game"

// roll is one distinct result of throwing some dice, with its probability.
type roll struct {
	faces       game.Hold
	probability float64
}

// weightedRolls[k] groups the 6^k equally likely throws of k dice by the
// multiset they produce.
var weightedRolls = buildWeightedRolls()

func buildWeightedRolls() [game.NumDice + 1][]roll {
	var table [game.NumDice + 1][]roll
	for k := 0; k <= game.NumDice; k++ {
		table[k] = makeWeightedRolls(k)
	}
	return table
}

func makeWeightedRolls(k int) []roll {
	total := 1
	for i := 0; i < k; i++ {
		total *= game.NumFaces
	}

	index := map[game.Hold]int{}
	rolls := []roll{}
	for throw := 0; throw < total; throw++ {
		var faces game.Hold
		rest := throw
		for i := 0; i < k; i++ {
			faces[rest%game.NumFaces]++
			rest /= game.NumFaces
		}
		i, ok := index[faces]
		if !ok {
			i = len(rolls)
			index[faces] = i
			rolls = append(rolls, roll{faces: faces})
		}
		rolls[i].probability++
	}
	for i := range rolls {
		rolls[i].probability /= float64(total)
	}
	return rolls
}

// outcomes lists the dice compositions reachable by rerolling around h, with
// their probabilities.
func outcomes(h game.Hold) []roll {
	rolls := weightedRolls[h.Rolled()]
	result := make([]roll, len(rolls))
	for i, r := range rolls {
		for face := range r.faces {
			r.faces[face] += h[face]
		}
		result[i] = r
	}
	return result
}
