package models

import (
	"sort"
	"strings"
)

// Hand is the set of cards a player holds. Order carries no meaning.
type Hand []Card

// Contains reports whether the hand holds the given card.
func (h Hand) Contains(c Card) bool {
	for _, hc := range h {
		if hc == c {
			return true
		}
	}
	return false
}

// HasCards reports whether every played card is present in the hand.
func (h Hand) HasCards(played []Card) bool {
	for _, c := range played {
		if !h.Contains(c) {
			return false
		}
	}
	return true
}

// Remove returns a new hand without the played cards. The receiver is not modified.
func (h Hand) Remove(played []Card) Hand {
	out := make(Hand, 0, len(h))
	for _, c := range h {
		if containsCard(played, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Sorted returns a copy ordered by value, then suit.
func (h Hand) Sorted() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// HasDuplicates reports whether any (value, suit) pair appears more than once.
func (h Hand) HasDuplicates() bool {
	seen := make(map[Card]struct{}, len(h))
	for _, c := range h {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
