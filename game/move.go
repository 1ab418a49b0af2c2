package game

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind uint8

const (
	Reroll Kind = iota
	Score
	Forfeit
)

func (k Kind) String() string {
	switch k {
	case Reroll:
		return "reroll"
	case Score:
		return "score"
	case Forfeit:
		return "forfeit"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Move is comparable: two moves are the same choice exactly when they are ==.
// Only the fields of its Kind are set.
type Move struct {
	Kind     Kind
	Hold     Hold
	Category Category
	Points   uint8
}

func RerollMove(h Hold) Move {
	return Move{Kind: Reroll, Hold: h}
}

func ScoreMove(c Category, points uint8) Move {
	return Move{Kind: Score, Category: c, Points: points}
}

func ForfeitMove(c Category) Move {
	return Move{Kind: Forfeit, Category: c}
}

func (m Move) String() string {
	switch m.Kind {
	case Reroll:
		return fmt.Sprintf("reroll %s", m.Hold)
	case Score:
		return fmt.Sprintf("score %s %d", m.Category, m.Points)
	case Forfeit:
		return fmt.Sprintf("forfeit %s", m.Category)
	}
	return fmt.Sprintf("move(%d)", uint8(m.Kind))
}

// ParseMove reads the format written by Move.String.
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Move{}, fmt.Errorf("empty move: %w", ErrInvalidMoveFormat)
	}

	switch strings.ToLower(fields[0]) {
	case "reroll":
		if len(fields) != 1+NumFaces {
			return Move{}, fmt.Errorf("reroll needs %d hold counts, got %d: %w", NumFaces, len(fields)-1, ErrInvalidMoveFormat)
		}
		var h Hold
		for i, field := range fields[1:] {
			count, err := strconv.ParseUint(field, 10, 8)
			if err != nil || count > NumDice {
				return Move{}, fmt.Errorf("hold count %q: %w", field, ErrInvalidMoveFormat)
			}
			h[i] = uint8(count)
		}
		if h.Kept() >= NumDice {
			return Move{}, fmt.Errorf("reroll must throw at least one die: %w", ErrInvalidMoveFormat)
		}
		return RerollMove(h), nil
	case "score":
		if len(fields) != 3 {
			return Move{}, fmt.Errorf("score needs a category and points: %w", ErrInvalidMoveFormat)
		}
		c, err := ParseCategory(fields[1])
		if err != nil {
			return Move{}, err
		}
		points, err := strconv.ParseUint(fields[2], 10, 8)
		if err != nil {
			return Move{}, fmt.Errorf("points %q: %w", fields[2], ErrInvalidMoveFormat)
		}
		return ScoreMove(c, uint8(points)), nil
	case "forfeit":
		if len(fields) != 2 {
			return Move{}, fmt.Errorf("forfeit needs a category: %w", ErrInvalidMoveFormat)
		}
		c, err := ParseCategory(fields[1])
		if err != nil {
			return Move{}, err
		}
		return ForfeitMove(c), nil
	}
	return Move{}, fmt.Errorf("unknown move %q: %w", fields[0], ErrInvalidMoveFormat)
}
