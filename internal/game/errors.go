// internal/game/errors.go
package game

import (
	"errors"

	"github.com/jason-s-yu/big2/internal/models"
)

// Input and state validity.
var (
	ErrInvalidCombination     = errors.New("cards do not form a valid combination")
	ErrCardsNotOwned          = errors.New("player does not hold all played cards")
	ErrSeatsIncomplete        = errors.New("all four seats must be occupied")
	ErrSeatTaken              = errors.New("seat is already taken")
	ErrInvalidSeatNumber      = errors.New("seat number must be between 1 and 4")
	ErrAlreadySeated          = errors.New("player already occupies a seat")
	ErrInvalidPointMultiplier = errors.New("point multiplier must be a positive multiple of 10")
	ErrInvalidDeck            = errors.New("deal must partition a full 52 card deck")
	ErrInvalidHouseRules      = errors.New("invalid house rules")
)

// Turn and sequencing violations.
var (
	ErrGameNotStarted              = errors.New("game has not started")
	ErrGameInProgress              = errors.New("game is in progress")
	ErrNotPlayersTurn              = errors.New("not the player's turn")
	ErrAlreadyPassed               = errors.New("player already passed this round")
	ErrMustLeadWithThreeOfDiamonds = errors.New("first play must contain the 3 of diamonds")
	ErrCannotPassOnFirstPlay       = errors.New("cannot pass on the first play")
	ErrStrengthTooLow              = errors.New("play is weaker than the previous play")
	ErrMismatchedCardCount         = errors.New("play must use the same number of cards as the previous play")
	ErrCannotWinWithTwos           = errors.New("cannot go out with twos")
)

// Lookup failures.
var (
	ErrPlayerNotInGame   = errors.New("player not in game")
	ErrGameNotFound      = errors.New("game not found")
	ErrPlayerKeyNotFound = errors.New("player key not found")
)

var ruleViolations = []error{
	models.ErrInvalidCard,
	ErrInvalidCombination,
	ErrCardsNotOwned,
	ErrSeatsIncomplete,
	ErrSeatTaken,
	ErrInvalidSeatNumber,
	ErrAlreadySeated,
	ErrInvalidPointMultiplier,
	ErrInvalidHouseRules,
	ErrGameNotStarted,
	ErrGameInProgress,
	ErrNotPlayersTurn,
	ErrAlreadyPassed,
	ErrMustLeadWithThreeOfDiamonds,
	ErrCannotPassOnFirstPlay,
	ErrStrengthTooLow,
	ErrMismatchedCardCount,
	ErrCannotWinWithTwos,
	ErrPlayerNotInGame,
}

// IsRuleViolation reports whether err is a user-attributable rejection that should be
// surfaced to the player rather than treated as an infrastructure failure.
func IsRuleViolation(err error) bool {
	for _, target := range ruleViolations {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
