// internal/game/valuation.go
package game

import (
	"github.com/jason-s-yu/big2/internal/models"
)

// Kind is the category of a played combination.
type Kind int

const (
	Invalid Kind = iota
	Single
	Pair
	Triple
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Pair:
		return "pair"
	case Triple:
		return "triple"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case FourOfAKind:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	}
	return "invalid"
}

// Combination is a classified play. Cards are sorted by value, then suit.
type Combination struct {
	Kind     Kind
	Strength int
	Cards    []models.Card
}

// Valid reports whether the combination may be played at all.
func (c Combination) Valid() bool {
	return c.Kind != Invalid && c.Strength > 0
}

// TotalValue returns the strength of a play, or 0 for an empty or illegal set of cards.
// Input order does not matter.
//
//	kind                  range      formula
//	single/pair/triple    31..310    value*10 + sum(suits); Ace sum+200, Two sum+300
//	straight              26..75     high*5 + suit of high card (A-10-J-Q-K counts the Ace as 14)
//	flush                 107..515   suit*100 + 15 with a Two, 14 with an Ace, else max value
//	full house            603..615   triple + 600; Aces 614, Twos 615
//	four of a kind        703..715   quad + 700; Aces 714, Twos 715
//	straight flush        826..1275  suit*100 + straight + 700
func TotalValue(cards []models.Card) int {
	return Classify(cards).Strength
}

// Classify sorts the cards and determines their kind and strength.
func Classify(cards []models.Card) Combination {
	sorted := []models.Card(models.Hand(cards).Sorted())
	combo := Combination{Kind: Invalid, Cards: sorted}
	if len(sorted) == 0 || models.Hand(sorted).HasDuplicates() {
		return combo
	}
	for _, c := range sorted {
		if !c.Valid() {
			return combo
		}
	}

	switch len(sorted) {
	case 1, 2, 3:
		if !sameValue(sorted) {
			return combo
		}
		combo.Kind = Kind(len(sorted)) // Single, Pair, Triple
		combo.Strength = setValue(sorted)
	case 4:
		if v := fourOfAKindValue(sorted); v > 0 {
			combo.Kind, combo.Strength = FourOfAKind, v
		}
	case 5:
		straight := straightValue(sorted)
		flush := flushValue(sorted)
		switch {
		case straight > 0 && flush > 0:
			combo.Kind = StraightFlush
			combo.Strength = int(sorted[0].Suit)*100 + straight + 700
		case fourOfAKindValue(sorted) > 0:
			combo.Kind, combo.Strength = FourOfAKind, fourOfAKindValue(sorted)
		case fullHouseValue(sorted) > 0:
			combo.Kind, combo.Strength = FullHouse, fullHouseValue(sorted)
		case flush > 0:
			combo.Kind, combo.Strength = Flush, flush
		case straight > 0:
			combo.Kind, combo.Strength = Straight, straight
		}
	}
	return combo
}

func sameValue(cards []models.Card) bool {
	for _, c := range cards[1:] {
		if c.Value != cards[0].Value {
			return false
		}
	}
	return true
}

func suitSum(cards []models.Card) int {
	sum := 0
	for _, c := range cards {
		sum += int(c.Suit)
	}
	return sum
}

// setValue scores singles, pairs and triples.
func setValue(cards []models.Card) int {
	switch cards[0].Value {
	case models.Ace:
		return suitSum(cards) + 200
	case models.Two:
		return suitSum(cards) + 300
	}
	return int(cards[0].Value)*10 + suitSum(cards)
}

// straightValue expects five cards sorted by value.
func straightValue(cards []models.Card) int {
	if len(cards) != 5 {
		return 0
	}
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = int(c.Value)
	}
	highSuit := int(cards[4].Suit)

	if values[0] == 1 && values[1] == 10 && values[2] == 11 && values[3] == 12 && values[4] == 13 {
		// ace-high run: the Ace is the top card
		values = []int{10, 11, 12, 13, 14}
		highSuit = int(cards[0].Suit)
	}
	for i := 0; i < 4; i++ {
		if values[i+1]-values[i] != 1 {
			return 0
		}
	}
	return values[4]*5 + highSuit
}

func flushValue(cards []models.Card) int {
	if len(cards) != 5 {
		return 0
	}
	suit := cards[0].Suit
	hasAce, hasTwo := false, false
	maxValue := 0
	for _, c := range cards {
		if c.Suit != suit {
			return 0
		}
		switch c.Value {
		case models.Ace:
			hasAce = true
		case models.Two:
			hasTwo = true
		}
		if int(c.Value) > maxValue {
			maxValue = int(c.Value)
		}
	}
	switch {
	case hasTwo:
		return int(suit)*100 + 15
	case hasAce:
		return int(suit)*100 + 14
	}
	return int(suit)*100 + maxValue
}

// rankBoost maps Aces and Twos above Kings for full houses and quads.
func rankBoost(v models.Value) int {
	switch v {
	case models.Ace:
		return 14
	case models.Two:
		return 15
	}
	return int(v)
}

func fullHouseValue(cards []models.Card) int {
	if len(cards) != 5 {
		return 0
	}
	v := cards
	if v[0].Value == v[1].Value && v[1].Value == v[2].Value && v[3].Value == v[4].Value && v[2].Value != v[3].Value {
		return rankBoost(v[0].Value) + 600
	}
	if v[0].Value == v[1].Value && v[2].Value == v[3].Value && v[3].Value == v[4].Value && v[1].Value != v[2].Value {
		return rankBoost(v[4].Value) + 600
	}
	return 0
}

func fourOfAKindValue(cards []models.Card) int {
	if len(cards) < 4 || len(cards) > 5 {
		return 0
	}
	v := cards
	if v[0].Value == v[1].Value && v[1].Value == v[2].Value && v[2].Value == v[3].Value {
		return rankBoost(v[0].Value) + 700
	}
	if len(v) == 5 && v[1].Value == v[2].Value && v[2].Value == v[3].Value && v[3].Value == v[4].Value {
		return rankBoost(v[4].Value) + 700
	}
	return 0
}

// isSingleTwo reports whether the play is exactly one Two.
func isSingleTwo(cards []models.Card) bool {
	return len(cards) == 1 && cards[0].Value == models.Two
}

// isTwosSet reports a single, pair or triple of Twos.
func isTwosSet(c Combination) bool {
	switch c.Kind {
	case Single, Pair, Triple:
		return c.Cards[0].Value == models.Two
	}
	return false
}
