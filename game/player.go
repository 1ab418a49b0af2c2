package game

import "math/bits"

type Player struct {
	Scores  [NumCategories]uint8
	Open    uint32 // Bit set while the category is unscored
	Rerolls uint8
}

func NewPlayer() Player {
	return Player{Open: AllCategories, Rerolls: MaxRerolls}
}

func (p *Player) IsOpen(c Category) bool {
	return p.Open&c.Bit() != 0
}

func (p *Player) fill(c Category, points uint8) {
	p.Scores[c] = points
	p.Open &^= c.Bit()
}

// Filled is the number of categories already scored or forfeited.
func (p *Player) Filled() int {
	return NumCategories - bits.OnesCount32(p.Open)
}

// Subtotal is the sum of the number categories, before any bonus.
func (p *Player) Subtotal() int {
	subtotal := 0
	for c := Ones; c <= Sixes; c++ {
		subtotal += int(p.Scores[c])
	}
	return subtotal
}

// Total is the sheet total including the upper bonus.
func (p *Player) Total() int {
	total := 0
	for _, points := range p.Scores {
		total += int(points)
	}
	if p.Subtotal() >= BonusThreshold {
		total += Bonus
	}
	return total
}
