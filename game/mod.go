// Package game models a six-die, twenty-category Yahtzee variant: dice
// compositions, scoring categories, players and the turn state machine.
package game

import "errors"

const (
	NumDice       = 6
	NumFaces      = 6
	NumCategories = 20
	// NumStates is the number of distinct compositions of six dice.
	NumStates = 462
)

const (
	MaxRerolls         = 2
	BonusThreshold     = 75
	Bonus              = 50
	MaxiYahtzeePoints  = 100
	DefaultScoreToBeat = 200
)

// Rounds is the number of turns each player takes before the game ends.
const Rounds = NumCategories

// AllCategories is the open mask of a fresh score sheet.
const AllCategories uint32 = 1<<NumCategories - 1

var (
	ErrTerminal          = errors.New("game is over")
	ErrCategoryClosed    = errors.New("category already filled")
	ErrNoRerolls         = errors.New("no rerolls left this turn")
	ErrIllegalHold       = errors.New("hold is not part of the dice")
	ErrIllegalScore      = errors.New("score does not match the dice")
	ErrInvalidMoveFormat = errors.New("invalid move format")
)
