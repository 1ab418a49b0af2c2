package game

import (
	"fmt"
	"strings"
)

// Category is one box of the score sheet.
type Category uint8

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	Pair
	TwoPair
	ThreePair
	ThreeKind
	FourKind
	FiveKind
	SmallStraight
	LargeStraight
	Straight
	House
	Villa
	Tower
	Chance
	MaxiYahtzee
)

var categoryNames = [NumCategories]string{
	"Ones",
	"Twos",
	"Threes",
	"Fours",
	"Fives",
	"Sixes",
	"Pair",
	"TwoPair",
	"ThreePair",
	"ThreeKind",
	"FourKind",
	"FiveKind",
	"SmallStraight",
	"LargeStraight",
	"Straight",
	"House",
	"Villa",
	"Tower",
	"Chance",
	"MaxiYahtzee",
}

// Protective categories are forfeited only when nothing else is open: the
// high number boxes carry the upper bonus and MaxiYahtzee is worth 100.
const Protective uint32 = 1<<Threes | 1<<Fours | 1<<Fives | 1<<Sixes | 1<<MaxiYahtzee

// MaxScores is the highest score each category can take.
var MaxScores = [NumCategories]int{
	6, 12, 18, 24, 30, 36, // numbers
	12, 22, 30, // pairs
	18, 24, 30, // kinds
	15, 20, 21, // straights
	28, 33, 34, // house, villa, tower
	36, 100,
}

// AverageScores is the typical score of each category when it is achieved.
var AverageScores = [NumCategories]float64{
	1, 4, 12, 16, 20, 24,
	8.44252, 14.2545, 21.0,
	10.6636, 14.0, 17.5,
	15.0, 20.0, 21.0,
	21.0, 21.0, 21.0,
	21.0, 100.0,
}

// ExpectedValues is the expected score of each category from one fresh roll.
var ExpectedValues = [NumCategories]float64{
	1.0, 2.0, 3.0, 4.0, 5.0, 6.0,
	8.23478, 7.92181, 0.810185,
	3.87899, 0.730967, 0.0697659,
	0.810185, 1.08025, 0.324074,
	3.57832, 0.135031, 0.202546,
	21.0, 0.0128601,
}

func (c Category) String() string {
	if int(c) < NumCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

func (c Category) Bit() uint32 {
	return 1 << c
}

// IsNumber reports whether c belongs to the upper (Ones..Sixes) section.
func (c Category) IsNumber() bool {
	return c <= Sixes
}

func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q: %w", s, ErrInvalidMoveFormat)
}

// CategoryEntry is a category achievable by some dice, with its score.
type CategoryEntry struct {
	Category Category
	Points   uint8
}

func (e CategoryEntry) String() string {
	return fmt.Sprintf("%s %d", e.Category, e.Points)
}

// Desirability ranks how good it is to fill a category with a score. Number
// categories only distinguish above and below average, the rest grow with
// the square of the score relative to the category maximum.
func Desirability(e CategoryEntry) float64 {
	if e.Category.IsNumber() {
		if float64(e.Points) >= AverageScores[e.Category] {
			return 1.0
		}
		return 0.0
	}
	best := float64(MaxScores[e.Category])
	points := float64(e.Points)
	return points * points / (best * best)
}
