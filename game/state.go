package game

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
)

type Game struct {
	Players []Player
	Current int
	Round   int
	Dice    Dice
}

func NewGame(players int, rng *rand.Rand) *Game {
	if players < 1 {
		panic("need at least one player")
	}
	g := &Game{
		Players: make([]Player, players),
		Dice:    Roll(rng),
	}
	for i := range g.Players {
		g.Players[i] = NewPlayer()
	}
	return g
}

func (g *Game) Clone() *Game {
	clone := *g
	clone.Players = make([]Player, len(g.Players))
	copy(clone.Players, g.Players)
	return &clone
}

func (g *Game) IsTerminal() bool {
	return g.Round >= Rounds
}

// Player is the player to move.
func (g *Game) Player() *Player {
	return &g.Players[g.Current]
}

// Play returns the game after move, leaving g untouched.
func (g *Game) Play(move Move, rng *rand.Rand) (*Game, error) {
	next := g.Clone()
	if err := next.Apply(move, rng); err != nil {
		return nil, err
	}
	return next, nil
}

// Apply plays move in place. On error the game is unchanged.
func (g *Game) Apply(move Move, rng *rand.Rand) error {
	if g.IsTerminal() {
		return ErrTerminal
	}
	p := g.Player()

	switch move.Kind {
	case Reroll:
		if p.Rerolls == 0 {
			return ErrNoRerolls
		}
		if move.Hold.Rolled() <= 0 || !g.Dice.Contains(move.Hold) {
			return fmt.Errorf("hold %s on dice %s: %w", move.Hold, g.Dice, ErrIllegalHold)
		}
		p.Rerolls--
		g.Dice = g.Dice.Reroll(move.Hold, rng)
		return nil
	case Score:
		if !p.IsOpen(move.Category) {
			return fmt.Errorf("score %s: %w", move.Category, ErrCategoryClosed)
		}
		points, ok := Points(g.Dice, move.Category)
		if !ok || points != move.Points {
			return fmt.Errorf("score %s %d on dice %s: %w", move.Category, move.Points, g.Dice, ErrIllegalScore)
		}
		p.fill(move.Category, points)
	case Forfeit:
		if !p.IsOpen(move.Category) {
			return fmt.Errorf("forfeit %s: %w", move.Category, ErrCategoryClosed)
		}
		p.fill(move.Category, 0)
	default:
		return fmt.Errorf("move kind %d: %w", move.Kind, ErrInvalidMoveFormat)
	}

	g.advance(rng)
	return nil
}

// advance passes the turn. A full table of turns is one round.
func (g *Game) advance(rng *rand.Rand) {
	g.Current++
	if g.Current == len(g.Players) {
		g.Current = 0
		g.Round++
	}
	if g.IsTerminal() {
		return
	}
	g.Dice = Roll(rng)
	g.Player().Rerolls = MaxRerolls
}

func (g *Game) Total(player int) int {
	return g.Players[player].Total()
}

// Winner is the player with the highest total; ties go to the lower index.
func (g *Game) Winner() int {
	winner := 0
	for i := 1; i < len(g.Players); i++ {
		if g.Total(i) > g.Total(winner) {
			winner = i
		}
	}
	return winner
}

// Beats reports whether the first player's total is above scoreToBeat.
func (g *Game) Beats(scoreToBeat int) bool {
	return g.Total(0) > scoreToBeat
}

// LegalMoves lists every move the current player may make: scores first,
// then rerolls, then forfeits.
func (g *Game) LegalMoves() []Move {
	if g.IsTerminal() {
		return nil
	}
	p := g.Player()
	moves := []Move{}
	for _, e := range Derive(g.Dice) {
		if p.IsOpen(e.Category) {
			moves = append(moves, ScoreMove(e.Category, e.Points))
		}
	}
	if p.Rerolls > 0 {
		for _, h := range g.Dice.Holds() {
			moves = append(moves, RerollMove(h))
		}
	}
	for open := p.Open; open != 0; open &= open - 1 {
		moves = append(moves, ForfeitMove(Category(bits.TrailingZeros32(open))))
	}
	return moves
}
