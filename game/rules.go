package game

import "sort"

// DesirabilityThreshold is the desirability a category must exceed to be
// offered as a scoring move.
const DesirabilityThreshold = 0.0

var derived, derivedMasks = deriveAll()

func deriveAll() (entries [NumStates][]CategoryEntry, masks [NumStates]uint32) {
	for rank := 0; rank < NumStates; rank++ {
		entries[rank] = derive(DiceAt(rank))
		masks[rank] = maskOf(entries[rank])
	}
	return entries, masks
}

// Derive lists every category the dice can score, in category order.
// The returned slice is shared and must not be modified.
func Derive(d Dice) []CategoryEntry {
	return derived[d.Rank()]
}

// Achievable is the bit mask of the categories the dice can score.
func (d Dice) Achievable() uint32 {
	return derivedMasks[d.Rank()]
}

// Points is the score the dice earn in category c; ok is false when the
// dice do not qualify.
func Points(d Dice, c Category) (points uint8, ok bool) {
	for _, e := range Derive(d) {
		if e.Category == c {
			return e.Points, true
		}
	}
	return 0, false
}

// Desirable keeps the entries above DesirabilityThreshold, most desirable
// first. Ties keep category order.
func Desirable(entries []CategoryEntry) []CategoryEntry {
	kept := make([]CategoryEntry, 0, len(entries))
	for _, e := range entries {
		if Desirability(e) > DesirabilityThreshold {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return Desirability(kept[i]) > Desirability(kept[j])
	})
	return kept
}

func maskOf(entries []CategoryEntry) uint32 {
	var mask uint32
	for _, e := range entries {
		mask |= e.Category.Bit()
	}
	return mask
}

func derive(d Dice) []CategoryEntry {
	entries := make([]CategoryEntry, 0, NumCategories)
	add := func(c Category, points int) {
		entries = append(entries, CategoryEntry{Category: c, Points: uint8(points)})
	}

	for face, count := range d {
		if count > 0 {
			add(Category(face), (face+1)*int(count))
		}
	}

	// Faces ascending
	var pairs, triples []int
	quad, quint, sextet := 0, 0, 0
	for face, count := range d {
		value := face + 1
		if count >= 2 {
			pairs = append(pairs, value)
		}
		if count >= 3 {
			triples = append(triples, value)
		}
		if count >= 4 {
			quad = value
		}
		if count >= 5 {
			quint = value
		}
		if count == 6 {
			sextet = value
		}
	}

	if len(pairs) >= 1 {
		add(Pair, 2*pairs[len(pairs)-1])
	}
	if len(pairs) >= 2 {
		add(TwoPair, 2*(pairs[len(pairs)-1]+pairs[len(pairs)-2]))
	}
	if len(pairs) >= 3 {
		add(ThreePair, 2*(pairs[0]+pairs[1]+pairs[2]))
	}
	if len(triples) >= 1 {
		add(ThreeKind, 3*triples[len(triples)-1])
	}
	if quad > 0 {
		add(FourKind, 4*quad)
	}
	if quint > 0 {
		add(FiveKind, 5*quint)
	}

	run := longestRun(d)
	if run.length >= 5 && run.start == 0 {
		add(SmallStraight, 15)
	}
	if (run.length == 5 && run.start == 1) || run.length == 6 {
		add(LargeStraight, 20)
	}
	if run.length == 6 {
		add(Straight, 21)
	}

	sum := d.Sum()
	if len(triples) >= 1 && len(pairs) >= 2 {
		add(House, sum)
	}
	if len(triples) >= 2 {
		add(Villa, sum)
	}
	if quad > 0 && len(pairs) >= 2 {
		add(Tower, sum)
	}
	add(Chance, sum)
	if sextet > 0 {
		add(MaxiYahtzee, MaxiYahtzeePoints)
	}
	return entries
}

type run struct {
	start, length int
}

func longestRun(d Dice) run {
	best := run{start: -1}
	current := run{start: -1}
	for face, count := range d {
		if count == 0 {
			current = run{start: -1}
			continue
		}
		if current.length == 0 {
			current.start = face
		}
		current.length++
		if current.length > best.length {
			best = current
		}
	}
	return best
}
