// internal/game/deck.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/big2/internal/models"
)

const (
	// DeckSize is the number of cards in a full deck.
	DeckSize = 52
	// HandSize is the number of cards dealt to each seat.
	HandSize = 13
)

// Deal holds the four dealt hands indexed by seat.
type Deal [NumSeats]models.Hand

// CreateDeck returns the 52 cards ordered by value, then suit.
func CreateDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, v := range models.AllValues {
		for _, s := range models.AllSuits {
			deck = append(deck, models.Card{Value: v, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a Fisher-Yates permutation of deck. The input is left untouched.
func ShuffleDeck(deck []models.Card, r *rand.Rand) []models.Card {
	shuffled := make([]models.Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DealCards slices a full deck into four contiguous 13-card hands.
func DealCards(deck []models.Card) (Deal, error) {
	if err := validateDeck(deck); err != nil {
		return Deal{}, err
	}
	var deal Deal
	for seat := range deal {
		hand := make(models.Hand, HandSize)
		copy(hand, deck[seat*HandSize:(seat+1)*HandSize])
		deal[seat] = hand
	}
	return deal, nil
}

// NewDeal creates, shuffles and deals a fresh deck.
func NewDeal(r *rand.Rand) Deal {
	deal, err := DealCards(ShuffleDeck(CreateDeck(), r))
	if err != nil {
		// a freshly created deck is always valid
		panic(err)
	}
	return deal
}

// IsStartingPlayer reports whether the hand holds the 3 of diamonds.
func IsStartingPlayer(hand []models.Card) bool {
	return models.Hand(hand).Contains(models.ThreeOfDiamonds)
}

// Cards flattens the deal back into one slice in seat order.
func (d Deal) Cards() []models.Card {
	out := make([]models.Card, 0, DeckSize)
	for _, h := range d {
		out = append(out, h...)
	}
	return out
}

func (d Deal) validate() error {
	for seat, h := range d {
		if len(h) != HandSize {
			return fmt.Errorf("%w: seat %d holds %d cards", ErrInvalidDeck, seat+1, len(h))
		}
	}
	return validateDeck(d.Cards())
}

func validateDeck(deck []models.Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("%w: got %d cards", ErrInvalidDeck, len(deck))
	}
	seen := make(map[models.Card]struct{}, DeckSize)
	for _, c := range deck {
		if !c.Valid() {
			return fmt.Errorf("%w: %w", ErrInvalidDeck, models.ErrInvalidCard)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidDeck, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
