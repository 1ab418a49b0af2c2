package game

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// Dice counts how many of the six dice show each face; index 0 is face 1.
type Dice [NumFaces]uint8

// Hold counts the dice kept back from a reroll, per face.
type Hold [NumFaces]uint8

// Roll throws all six dice.
func Roll(rng *rand.Rand) Dice {
	var d Dice
	for i := 0; i < NumDice; i++ {
		d[rng.Intn(NumFaces)]++
	}
	return d
}

// Reroll keeps the held dice and throws the rest.
func (d Dice) Reroll(h Hold, rng *rand.Rand) Dice {
	next := Dice(h)
	for i := h.Rolled(); i > 0; i-- {
		next[rng.Intn(NumFaces)]++
	}
	return next
}

// Contains reports whether every held die is showing.
func (d Dice) Contains(h Hold) bool {
	for face := range d {
		if h[face] > d[face] {
			return false
		}
	}
	return true
}

// Sum is the pip total of the dice.
func (d Dice) Sum() int {
	sum := 0
	for face, count := range d {
		sum += (face + 1) * int(count)
	}
	return sum
}

// Faces lists the dice values in ascending order.
func (d Dice) Faces() [NumDice]uint8 {
	var faces [NumDice]uint8
	i := 0
	for face, count := range d {
		for c := uint8(0); c < count && i < NumDice; c++ {
			faces[i] = uint8(face + 1)
			i++
		}
	}
	return faces
}

// HoldFromMask keeps the dice whose positions in Faces are not set in
// rerolled.
func (d Dice) HoldFromMask(rerolled uint8) Hold {
	var h Hold
	for i, face := range d.Faces() {
		if rerolled&(1<<i) == 0 {
			h[face-1]++
		}
	}
	return h
}

func (d Dice) String() string {
	faces := d.Faces()
	parts := make([]string, NumDice)
	for i, face := range faces {
		parts[i] = fmt.Sprint(face)
	}
	return strings.Join(parts, " ")
}

// Holds lists the distinct sub-multisets of the dice that leave at least one
// die to throw. Positionally different holds of equal faces collapse.
func (d Dice) Holds() []Hold {
	holds := []Hold{}
	var h Hold
	var walk func(face int)
	walk = func(face int) {
		if face == NumFaces {
			if h.Rolled() > 0 {
				holds = append(holds, h)
			}
			return
		}
		for c := uint8(0); c <= d[face]; c++ {
			h[face] = c
			walk(face + 1)
		}
		h[face] = 0
	}
	walk(0)
	return holds
}

// Kept is the number of dice held.
func (h Hold) Kept() int {
	kept := 0
	for _, count := range h {
		kept += int(count)
	}
	return kept
}

// Rolled is the number of dice thrown again.
func (h Hold) Rolled() int {
	return NumDice - h.Kept()
}

func (h Hold) String() string {
	parts := make([]string, NumFaces)
	for i, count := range h {
		parts[i] = fmt.Sprint(count)
	}
	return strings.Join(parts, " ")
}
