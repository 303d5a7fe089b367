package game

import (
	"testing"

	"github.com/jason-s-yu/big2/internal/models"
	"github.com/stretchr/testify/assert"
)

// c is a fixture shorthand: value then suit code.
func c(value, suit int) models.Card {
	return models.MustCard(value, suit)
}

func cards(pairs ...int) []models.Card {
	out := make([]models.Card, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, c(pairs[i], pairs[i+1]))
	}
	return out
}

func TestTotalValueEmpty(t *testing.T) {
	assert.Equal(t, 0, TotalValue(nil))
	assert.Equal(t, 0, TotalValue([]models.Card{}))
}

func TestTotalValueCardsOutsideDeck(t *testing.T) {
	for name, in := range map[string][]models.Card{
		"value zero":     {{Value: 0, Suit: models.Diamonds}},
		"unused suit":    {{Value: 7, Suit: 4}},
		"value fourteen": {{Value: 14, Suit: models.Diamonds}, {Value: 14, Suit: models.Clubs}},
		"mixed with valid": {
			{Value: 3, Suit: models.Diamonds}, {Value: 4, Suit: models.Diamonds}, {Value: 5, Suit: models.Diamonds},
			{Value: 6, Suit: models.Diamonds}, {Value: 7, Suit: 4},
		},
	} {
		assert.Equal(t, 0, TotalValue(in), name)
		assert.Equal(t, Invalid, Classify(in).Kind, name)
	}
}

func TestTotalValueSets(t *testing.T) {
	assert.Equal(t, 31, TotalValue(cards(3, 1)), "lowest single")
	assert.Equal(t, 73, TotalValue(cards(7, 1, 7, 2)), "pair of sevens")
	assert.Equal(t, 203, TotalValue(cards(1, 1, 1, 2)), "pair of aces")
	assert.Equal(t, 303, TotalValue(cards(2, 1, 2, 2)), "pair of twos")
	assert.Less(t, TotalValue(cards(1, 1, 1, 2)), TotalValue(cards(2, 1, 2, 2)))
	assert.Equal(t, 305, TotalValue(cards(2, 5)), "two of spades is the top single")
	assert.Equal(t, 310, TotalValue(cards(2, 2, 2, 3, 2, 5)), "triple twos")
	assert.Equal(t, 136, TotalValue(cards(13, 1, 13, 5)))

	for _, invalid := range [][]models.Card{
		cards(7, 1, 8, 1),
		cards(7, 1, 7, 2, 8, 3),
		cards(7, 1, 7, 1),
	} {
		assert.Equal(t, 0, TotalValue(invalid), "%v", invalid)
	}
}

func TestTotalValueOrderInvariant(t *testing.T) {
	hands := [][]models.Card{
		cards(7, 2, 7, 1),
		cards(7, 1, 3, 2, 5, 5, 4, 3, 6, 1),
		cards(2, 2, 13, 5, 13, 1, 2, 3, 13, 2),
		cards(9, 3, 9, 1, 4, 2, 9, 5, 9, 2),
	}
	for _, h := range hands {
		reversed := make([]models.Card, len(h))
		for i, card := range h {
			reversed[len(h)-1-i] = card
		}
		assert.Equal(t, TotalValue(h), TotalValue(reversed), "%v", h)
		assert.NotZero(t, TotalValue(h), "%v", h)
	}
}

func TestStraights(t *testing.T) {
	combo := Classify(cards(3, 2, 4, 3, 5, 5, 6, 1, 7, 1))
	assert.Equal(t, Straight, combo.Kind)
	assert.Equal(t, 36, combo.Strength)

	// suit comes from the high card even when input is unsorted
	assert.Equal(t, 9*5+5, TotalValue(cards(9, 5, 5, 1, 6, 2, 7, 3, 8, 1)))

	// ace-high run uses the suit of the ace
	for _, s := range models.AllSuits {
		h := []models.Card{c(1, int(s)), c(10, 1), c(11, 2), c(12, 3), c(13, 5)}
		if s == models.Spades {
			h[3] = c(12, 1)
		}
		assert.Equal(t, 70+int(s), TotalValue(h))
	}

	assert.Equal(t, 25+3, TotalValue(cards(1, 1, 2, 2, 3, 5, 4, 1, 5, 3)), "ace-low run counts the five")

	for _, notStraight := range [][]models.Card{
		cards(1, 1, 2, 2, 3, 3, 4, 1, 6, 2),
		cards(7, 1, 10, 2, 11, 3, 12, 1, 13, 2),
		cards(11, 1, 12, 2, 13, 3, 1, 5, 2, 2),
	} {
		assert.Equal(t, 0, straightValue(models.Hand(notStraight).Sorted()), "%v", notStraight)
	}
}

func TestFlushes(t *testing.T) {
	for _, s := range models.AllSuits {
		suit := int(s)
		assert.Equal(t, suit*100+13, TotalValue(cards(5, suit, 10, suit, 11, suit, 12, suit, 13, suit)))
		assert.Equal(t, suit*100+14, flushValue(models.Hand(cards(1, suit, 10, suit, 11, suit, 12, suit, 13, suit)).Sorted()))
		assert.Equal(t, suit*100+15, TotalValue(cards(1, suit, 2, suit, 11, suit, 12, suit, 13, suit)))
	}
	assert.Equal(t, 107, flushValue(models.Hand(cards(3, 1, 4, 1, 5, 1, 6, 1, 7, 1)).Sorted()))
	assert.Equal(t, 108, TotalValue(cards(3, 1, 4, 1, 5, 1, 6, 1, 8, 1)))
	assert.Equal(t, Flush, Classify(cards(3, 1, 4, 1, 5, 1, 6, 1, 8, 1)).Kind)
	assert.Equal(t, 0, flushValue(models.Hand(cards(3, 1, 4, 1, 5, 1, 6, 1, 8, 2)).Sorted()))
}

func TestFullHouse(t *testing.T) {
	for i := 3; i < 13; i++ {
		assert.Equal(t, 600+i, TotalValue(cards(i, 1, i, 2, i, 3, i+1, 1, i+1, 2)))
		assert.Equal(t, 600+i, TotalValue(cards(i-1, 1, i-1, 2, i, 1, i, 2, i, 3)))
	}
	assert.Equal(t, 613, TotalValue(cards(13, 1, 13, 2, 13, 3, 2, 1, 2, 2)))
	assert.Equal(t, 614, TotalValue(cards(1, 1, 1, 2, 1, 3, 2, 1, 2, 2)))
	assert.Equal(t, 615, TotalValue(cards(2, 1, 2, 2, 2, 3, 1, 1, 1, 2)))
	assert.Equal(t, FullHouse, Classify(cards(2, 1, 2, 2, 2, 3, 1, 1, 1, 2)).Kind)
}

func TestFourOfAKind(t *testing.T) {
	for i := 3; i < 13; i++ {
		assert.Equal(t, 700+i, TotalValue(cards(i, 1, i, 2, i, 3, i, 5, i+1, 1)))
	}
	assert.Equal(t, 707, TotalValue(cards(7, 1, 7, 2, 7, 3, 7, 5)), "bare quad")
	assert.Equal(t, 707, TotalValue(cards(7, 1, 7, 2, 7, 3, 7, 5, 1, 1)), "ace kicker sorts first")
	assert.Equal(t, 714, TotalValue(cards(1, 1, 1, 2, 1, 3, 1, 5, 13, 1)))
	assert.Equal(t, 715, TotalValue(cards(2, 1, 2, 2, 2, 3, 2, 5, 13, 1)))
	assert.Equal(t, 0, TotalValue(cards(7, 1, 7, 2, 7, 3, 8, 5)), "four cards without a quad")
}

func TestStraightFlush(t *testing.T) {
	combo := Classify(cards(3, 1, 4, 1, 5, 1, 6, 1, 7, 1))
	assert.Equal(t, StraightFlush, combo.Kind)
	assert.Equal(t, 836, combo.Strength)

	assert.Equal(t, 826, TotalValue(cards(1, 1, 2, 1, 3, 1, 4, 1, 5, 1)), "weakest straight flush")
	assert.Equal(t, 1275, TotalValue(cards(1, 5, 10, 5, 11, 5, 12, 5, 13, 5)), "strongest straight flush")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "full_house", FullHouse.String())
	assert.Equal(t, "invalid", Kind(99).String())
}

func TestChopBands(t *testing.T) {
	rules := DefaultChopRules()
	cases := map[int]bool{
		701: false, 702: true, 716: true, 717: false,
		803: false, 804: true, 1215: true, 1216: false,
		305: false, 615: false,
	}
	for strength, want := range cases {
		assert.Equal(t, want, rules.IsChop(strength), "strength %d", strength)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "3D", Describe(cards(3, 1)))
	assert.Equal(t, "pair of 7s", Describe(cards(7, 1, 7, 2)))
	assert.Equal(t, "three Ks", Describe(cards(13, 1, 13, 2, 13, 5)))
	assert.Equal(t, "invalid", Describe(cards(7, 1, 8, 2)))

	five := Describe(cards(3, 1, 4, 1, 5, 1, 6, 1, 7, 1))
	assert.NotEmpty(t, five)
	assert.NotEqual(t, "invalid", five)
}
