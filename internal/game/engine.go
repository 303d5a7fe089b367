// internal/game/engine.go
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/models"
)

// StartResult carries the dealt hands for the caller to persist.
type StartResult struct {
	Hands     map[uuid.UUID]models.Hand
	FirstTurn SeatID
}

// PlayResult describes the effects of an accepted play.
type PlayResult struct {
	Seat        SeatID
	Combination Combination
	Chops       []ChopTarget
	ChopPoints  int
	Won         bool
	Place       int // finishing position when Won
	GameOver    bool
	Loser       SeatID // set when GameOver
	NextTurn    SeatID
	HasNext     bool
}

// PassResult describes the effects of an accepted pass.
type PassResult struct {
	Seat         SeatID
	TrickCleared bool
	NextTurn     SeatID
	HasNext      bool
}

// TakeSeat places actor in the 1-based seat number.
func (t *GameTable) TakeSeat(actor uuid.UUID, seatNumber int) error {
	if t.GameStarted {
		return ErrGameInProgress
	}
	if seatNumber < 1 || seatNumber > NumSeats {
		return fmt.Errorf("%w: %d", ErrInvalidSeatNumber, seatNumber)
	}
	if actor == uuid.Nil {
		return ErrPlayerNotInGame
	}
	if _, err := t.SeatOf(actor); err == nil {
		return ErrAlreadySeated
	}
	seat := &t.Seats[seatNumber-1]
	if seat.Occupied() {
		return ErrSeatTaken
	}
	*seat = Seat{Occupant: actor}
	return nil
}

// LeaveSeat vacates actor's seat. Not allowed mid-game.
func (t *GameTable) LeaveSeat(actor uuid.UUID) error {
	if t.GameStarted {
		return ErrGameInProgress
	}
	id, err := t.SeatOf(actor)
	if err != nil {
		return err
	}
	t.Seats[id] = Seat{}
	return nil
}

// SetPointMultiplier changes the stake between games.
func (t *GameTable) SetPointMultiplier(pm int) error {
	if t.GameStarted {
		return ErrGameInProgress
	}
	if !ValidPointMultiplier(pm) {
		return fmt.Errorf("%w: %d", ErrInvalidPointMultiplier, pm)
	}
	t.PointMultiplier = pm
	t.Rules.PointMultiplier = pm
	return nil
}

// UpdateRules applies house-rule changes decoded from JSON. Not allowed mid-game; a
// rejected change leaves the rules untouched.
func (t *GameTable) UpdateRules(changes map[string]interface{}) error {
	if t.GameStarted {
		return ErrGameInProgress
	}
	rules, err := ParseRules(changes, t.Rules)
	if err != nil {
		if errors.Is(err, ErrInvalidPointMultiplier) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInvalidHouseRules, err)
	}
	t.Rules = rules
	t.PointMultiplier = rules.PointMultiplier
	return nil
}

// StartGame deals the given hands and hands the turn to the holder of the 3 of diamonds.
// Scores carry over between games at the same table.
func (t *GameTable) StartGame(deal Deal) (StartResult, error) {
	if t.GameStarted {
		return StartResult{}, ErrGameInProgress
	}
	for _, s := range t.Seats {
		if !s.Occupied() {
			return StartResult{}, ErrSeatsIncomplete
		}
	}
	if err := deal.validate(); err != nil {
		return StartResult{}, err
	}

	res := StartResult{Hands: make(map[uuid.UUID]models.Hand, NumSeats)}
	for _, id := range AllSeats {
		seat := &t.Seats[id]
		seat.RoundPass, seat.Won = false, false
		seat.PlayerTurn = IsStartingPlayer(deal[id])
		if seat.PlayerTurn {
			res.FirstTurn = id
		}
		res.Hands[seat.Occupant] = append(models.Hand(nil), deal[id]...)
	}
	if t.PointMultiplier == 0 {
		t.PointMultiplier = DefaultPointMultiplier
	}
	t.PlayedCards = nil
	t.FinishOrder = nil
	t.WinnerNumber = 1
	t.IsFirstPlay = true
	t.GameStarted = true
	t.TurnID++
	return res, nil
}

// checkActor runs the checks shared by plays and passes.
func (t *GameTable) checkActor(actor uuid.UUID) (SeatID, error) {
	if !t.GameStarted {
		return 0, ErrGameNotStarted
	}
	id, err := t.SeatOf(actor)
	if err != nil {
		return 0, err
	}
	if !t.Seats[id].PlayerTurn {
		return 0, ErrNotPlayersTurn
	}
	if t.Seats[id].RoundPass {
		return 0, ErrAlreadyPassed
	}
	return id, nil
}

// PlayCards validates and applies a play by actor holding hand. The table is left
// unchanged on error. The returned hand is what actor holds afterwards.
func (t *GameTable) PlayCards(actor uuid.UUID, cards []models.Card, hand models.Hand) (models.Hand, PlayResult, error) {
	id, err := t.checkActor(actor)
	if err != nil {
		return hand, PlayResult{}, err
	}
	for _, c := range cards {
		if !c.Valid() {
			return hand, PlayResult{}, fmt.Errorf("%w: value %d suit %d", models.ErrInvalidCard, c.Value, c.Suit)
		}
	}
	combo := Classify(cards)
	if !combo.Valid() {
		return hand, PlayResult{}, ErrInvalidCombination
	}
	if t.IsFirstPlay && !models.Hand(cards).Contains(models.ThreeOfDiamonds) {
		return hand, PlayResult{}, ErrMustLeadWithThreeOfDiamonds
	}
	if !hand.HasCards(cards) {
		return hand, PlayResult{}, ErrCardsNotOwned
	}

	chop := t.Rules.Chop
	prev, hasPrev := t.LastPlay()
	if hasPrev {
		if combo.Strength < prev.Strength {
			return hand, PlayResult{}, ErrStrengthTooLow
		}
		if len(cards) != len(prev.Cards) && !chop.overridesCount(combo.Strength, prev) {
			return hand, PlayResult{}, ErrMismatchedCardCount
		}
	}
	remaining := hand.Remove(cards)
	if len(remaining) == 0 && isTwosSet(combo) {
		return hand, PlayResult{}, ErrCannotWinWithTwos
	}

	res := PlayResult{Seat: id, Combination: combo}
	if hasPrev && chop.IsChop(combo.Strength) {
		res.Chops = chop.chopTargets(id, t.PlayedCards)
		res.ChopPoints = t.applyChop(id, res.Chops)
	}

	t.PlayedCards = append(t.PlayedCards, Play{
		Seat:     id,
		Player:   actor,
		Cards:    combo.Cards,
		Strength: combo.Strength,
	})
	t.IsFirstPlay = false

	if len(remaining) == 0 {
		res.Won = true
		res.Place = t.WinnerNumber
		t.recordWin(id)
		if t.winners() >= NumSeats-1 {
			res.GameOver = true
			res.Loser = t.finishGame(id)
			t.TurnID++
			return remaining, res, nil
		}
	}

	res.NextTurn, res.HasNext = NextPlayerTurn(t.Seats)
	t.Seats[id].PlayerTurn = false
	if res.HasNext {
		t.Seats[res.NextTurn].PlayerTurn = true
	}
	t.TurnID++
	return remaining, res, nil
}

func (t *GameTable) recordWin(id SeatID) {
	seat := &t.Seats[id]
	seat.Won = true
	seat.Score += t.PointMultiplier / t.WinnerNumber
	t.WinnerNumber++
	t.FinishOrder = append(t.FinishOrder, id)
}

// finishGame settles the last seat and closes the game. last is the seat that just went out.
func (t *GameTable) finishGame(last SeatID) SeatID {
	var loser SeatID
	for _, id := range AllSeats {
		if !t.Seats[id].Won {
			loser = id
		}
	}
	t.Seats[loser].Score -= t.PointMultiplier
	if t.Rules.ThirdPlacePenalty {
		t.Seats[last].Score -= t.PointMultiplier / 2
	}
	t.FinishOrder = append(t.FinishOrder, loser)
	for i := range t.Seats {
		t.Seats[i].PlayerTurn = false
		t.Seats[i].RoundPass = false
	}
	t.GameStarted = false
	return loser
}

// PassRound marks actor as passed for the current trick. Once three seats are passed or
// out, the trick is cleared and the next seat leads.
func (t *GameTable) PassRound(actor uuid.UUID) (PassResult, error) {
	id, err := t.checkActor(actor)
	if err != nil {
		return PassResult{}, err
	}
	if t.IsFirstPlay {
		return PassResult{}, ErrCannotPassOnFirstPlay
	}

	res := PassResult{Seat: id}
	res.NextTurn, res.HasNext = NextPlayerTurn(t.Seats)
	t.Seats[id].RoundPass = true
	t.Seats[id].PlayerTurn = false

	out := 0
	for _, s := range t.Seats {
		if s.RoundPass || s.Won {
			out++
		}
	}
	if out >= NumSeats-1 {
		for i := range t.Seats {
			t.Seats[i].RoundPass = false
		}
		t.PlayedCards = nil
		res.TrickCleared = true
	}
	if res.HasNext {
		t.Seats[res.NextTurn].PlayerTurn = true
	}
	t.TurnID++
	return res, nil
}
