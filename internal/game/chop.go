package game

import "github.com/google/uuid"

// ChopTarget is one prior play taken by a chop, with the points moved from its owner.
type ChopTarget struct {
	Seat   SeatID    `json:"seat"`
	Player uuid.UUID `json:"player"`
	Cards  int       `json:"cards"`
	Points int       `json:"points"`
}

// overridesCount reports whether a play of strength may ignore the card count of prev.
func (c ChopRules) overridesCount(strength int, prev Play) bool {
	if !c.IsChop(strength) {
		return false
	}
	return isSingleTwo(prev.Cards) || len(prev.Cards) == 5 || c.IsChop(prev.Strength)
}

// tier returns the points a chop takes from p and whether the chain may continue past it.
// Zero points means p is not a chop target.
func (c ChopRules) tier(p Play) (points int, chained bool) {
	switch {
	case isSingleTwo(p.Cards):
		return c.TwoPoints, true
	case c.IsChop(p.Strength):
		return c.BombPoints, true
	case len(p.Cards) == 5:
		return c.ComboPoints, false
	}
	return 0, false
}

// chopTargets walks the trick backward from the most recent play and collects the plays
// a chop by actor scores against. The walk stops at the actor's own play, at a play that
// is not a target, after a plain five-card target, or after MaxChain plays.
func (c ChopRules) chopTargets(actor SeatID, trick []Play) []ChopTarget {
	var out []ChopTarget
	for i := len(trick) - 1; i >= 0 && len(out) < c.MaxChain; i-- {
		p := trick[i]
		if p.Seat == actor {
			break
		}
		points, chained := c.tier(p)
		if points == 0 {
			break
		}
		out = append(out, ChopTarget{Seat: p.Seat, Player: p.Player, Cards: len(p.Cards), Points: points})
		if !chained {
			break
		}
	}
	return out
}

// applyChop moves the points of every target from its owner to actor and returns the total.
func (t *GameTable) applyChop(actor SeatID, targets []ChopTarget) int {
	total := 0
	for _, tg := range targets {
		t.Seats[tg.Seat].Score -= tg.Points
		t.Seats[actor].Score += tg.Points
		total += tg.Points
	}
	return total
}
