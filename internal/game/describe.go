package game

import (
	"fmt"

	"github.com/jason-s-yu/big2/internal/models"
	"github.com/paulhankin/poker"
)

// Describe renders a play for logs and the action history, e.g. "pair of 7s" or
// "straight flush, 7 high". Five-card plays use the poker library's hand names.
func Describe(cards []models.Card) string {
	combo := Classify(cards)
	switch combo.Kind {
	case Invalid:
		return "invalid"
	case Single:
		return combo.Cards[0].String()
	case Pair:
		return fmt.Sprintf("pair of %ss", combo.Cards[0].Value)
	case Triple:
		return fmt.Sprintf("three %ss", combo.Cards[0].Value)
	}
	if len(combo.Cards) == 5 {
		if desc, err := describeFive(combo.Cards); err == nil {
			return desc
		}
	}
	return fmt.Sprintf("%s %s", combo.Kind, models.Hand(combo.Cards))
}

func describeFive(cards []models.Card) (string, error) {
	pcs := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := poker.MakeCard(toPokerSuit(c.Suit), poker.Rank(c.Value))
		if err != nil {
			return "", fmt.Errorf("convert %s: %w", c, err)
		}
		pcs[i] = pc
	}
	return poker.Describe(pcs)
}

func toPokerSuit(s models.Suit) poker.Suit {
	switch s {
	case models.Diamonds:
		return poker.Diamond
	case models.Hearts:
		return poker.Heart
	case models.Spades:
		return poker.Spade
	}
	return poker.Club
}
