// internal/models/card.go
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCard is returned when a card is built from a value or suit outside the deck.
var ErrInvalidCard = errors.New("invalid card")

// Value is the face value of a card. 1 = Ace, 11 = Jack, 12 = Queen, 13 = King.
type Value int

// Suit codes. 4 is intentionally unused; the suit codes feed directly into hand strength.
type Suit int

const (
	Diamonds Suit = 1
	Clubs    Suit = 2
	Hearts   Suit = 3
	Spades   Suit = 5
)

const (
	Ace   Value = 1
	Two   Value = 2
	Three Value = 3
	Ten   Value = 10
	Jack  Value = 11
	Queen Value = 12
	King  Value = 13
)

// AllValues lists card values in deck order.
var AllValues = []Value{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// AllSuits lists suit codes in deck order.
var AllSuits = []Suit{Diamonds, Clubs, Hearts, Spades}

// Card is an immutable playing card. Two cards are equal when value and suit match.
type Card struct {
	Value Value `json:"value"`
	Suit  Suit  `json:"suit"`
}

// ThreeOfDiamonds must be part of the opening play of every game.
var ThreeOfDiamonds = Card{Value: Three, Suit: Diamonds}

// NewCard validates the value (1-13) and suit (1, 2, 3 or 5).
func NewCard(value, suit int) (Card, error) {
	c := Card{Value: Value(value), Suit: Suit(suit)}
	if !c.Valid() {
		return Card{}, fmt.Errorf("%w: value %d suit %d", ErrInvalidCard, value, suit)
	}
	return c, nil
}

// MustCard is NewCard for fixtures and constants; it panics on invalid input.
func MustCard(value, suit int) Card {
	c, err := NewCard(value, suit)
	if err != nil {
		panic(err)
	}
	return c
}

func (v Value) Valid() bool {
	return v >= Ace && v <= King
}

func (s Suit) Valid() bool {
	switch s {
	case Diamonds, Clubs, Hearts, Spades:
		return true
	}
	return false
}

// Valid reports whether both the value and the suit belong to the deck.
func (c Card) Valid() bool {
	return c.Value.Valid() && c.Suit.Valid()
}

func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	}
	return "?"
}

func (v Value) String() string {
	switch v {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return strconv.Itoa(int(v))
}

// String renders a card as value followed by suit letter, e.g. "3D" or "AS".
func (c Card) String() string {
	return c.Value.String() + c.Suit.String()
}

// Less orders cards by value, then suit.
func (c Card) Less(o Card) bool {
	if c.Value != o.Value {
		return c.Value < o.Value
	}
	return c.Suit < o.Suit
}

// ParseCard reads the String form back, e.g. "3D", "AS", "10H". Case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	var suit Suit
	switch s[len(s)-1] {
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	var value int
	switch rank := s[:len(s)-1]; rank {
	case "A":
		value = int(Ace)
	case "J":
		value = int(Jack)
	case "Q":
		value = int(Queen)
	case "K":
		value = int(King)
	default:
		n, err := strconv.Atoi(rank)
		if err != nil {
			return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
		}
		value = n
	}
	return NewCard(value, int(suit))
}

// ParseHand reads a space separated list of cards.
func ParseHand(s string) (Hand, error) {
	fields := strings.Fields(s)
	h := make(Hand, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		h = append(h, c)
	}
	return h, nil
}
