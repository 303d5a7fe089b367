package main

import (
	"sort"

	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
)

// choose picks a move for the seat on turn: the 3 of diamonds to open, a single when
// leading, the lowest single that beats a single on the table, otherwise a pass.
// The bot never strands itself holding nothing but Twos.
func choose(view game.TableView, hand models.Hand) (cards []models.Card, pass bool) {
	if view.IsFirstPlay {
		return []models.Card{models.ThreeOfDiamonds}, false
	}
	sorted := hand.Sorted()
	if view.LastPlay == nil {
		return []models.Card{lead(sorted)}, false
	}
	if len(view.LastPlay.Cards) != 1 {
		return nil, true
	}
	byStrength := append(models.Hand(nil), sorted...)
	sort.SliceStable(byStrength, func(i, j int) bool { return single(byStrength[i]) < single(byStrength[j]) })
	for _, c := range byStrength {
		if single(c) <= view.LastPlay.Strength {
			continue
		}
		if strandsTwos(sorted, c) {
			continue
		}
		return []models.Card{c}, false
	}
	return nil, true
}

func single(c models.Card) int {
	return game.TotalValue([]models.Card{c})
}

func lead(sorted models.Hand) models.Card {
	hasOther := false
	for _, c := range sorted {
		if c.Value != models.Two {
			hasOther = true
		}
	}
	for _, c := range sorted {
		if (c.Value == models.Two) == hasOther {
			return c
		}
	}
	return sorted[0]
}

// strandsTwos reports whether playing c leaves a hand that can only go out with Twos.
func strandsTwos(hand models.Hand, c models.Card) bool {
	rest := hand.Remove([]models.Card{c})
	if len(rest) == 0 {
		return c.Value == models.Two
	}
	for _, r := range rest {
		if r.Value != models.Two {
			return false
		}
	}
	return true
}
