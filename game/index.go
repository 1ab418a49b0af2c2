package game

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

const maxBinomial = 11

var (
	binomials = buildBinomials()
	unranked  = buildUnranked()
)

func buildBinomials() [maxBinomial][maxBinomial]int {
	var table [maxBinomial][maxBinomial]int
	for n := 0; n < maxBinomial; n++ {
		for k := 0; k <= n; k++ {
			table[n][k] = combin.Binomial(n, k)
		}
	}
	return table
}

func buildUnranked() [NumStates]Dice {
	var table [NumStates]Dice
	count := 0
	var d Dice
	var fill func(face, left int)
	fill = func(face, left int) {
		if face == NumFaces-1 {
			d[face] = uint8(left)
			table[d.Rank()] = d
			count++
			return
		}
		for c := 0; c <= left; c++ {
			d[face] = uint8(c)
			fill(face+1, left-c)
		}
	}
	fill(0, NumDice)
	if count != NumStates {
		panic(fmt.Sprintf("enumerated %d dice states, expected %d", count, NumStates))
	}
	return table
}

// Rank maps a dice composition to its dense index in [0, NumStates). Each
// unit of frequency below the true count at a face skips the weak
// compositions of the remaining dice over the remaining faces.
func (d Dice) Rank() int {
	rank := 0
	left := NumDice
	for face := 0; face < NumFaces-1; face++ {
		parts := NumFaces - 1 - face
		count := int(d[face])
		if count > left {
			panic(fmt.Sprintf("invalid dice composition %v", [NumFaces]uint8(d)))
		}
		for j := 0; j < count; j++ {
			rest := left - j
			rank += binomials[rest+parts-1][parts-1]
		}
		left -= count
	}
	if int(d[NumFaces-1]) != left {
		panic(fmt.Sprintf("invalid dice composition %v", [NumFaces]uint8(d)))
	}
	return rank
}

// DiceAt is the inverse of Rank.
func DiceAt(rank int) Dice {
	if rank < 0 || rank >= NumStates {
		panic(fmt.Sprintf("dice rank %d out of range", rank))
	}
	return unranked[rank]
}
