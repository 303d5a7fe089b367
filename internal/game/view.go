// internal/game/view.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/models"
)

// SeatView is the public state of one seat.
type SeatView struct {
	Seat       SeatID    `json:"seat"`
	Occupant   uuid.UUID `json:"occupant"`
	HandSize   int       `json:"handSize"`
	RoundPass  bool      `json:"roundPass"`
	PlayerTurn bool      `json:"playerTurn"`
	Won        bool      `json:"won"`
	Score      int       `json:"score"`
}

// PlayView is a play as shown to every seat.
type PlayView struct {
	Seat        SeatID        `json:"seat"`
	Cards       []models.Card `json:"cards"`
	Strength    int           `json:"strength"`
	Description string        `json:"description"`
}

// TableView is a snapshot of the table from one viewer's perspective. Only the viewer's
// own cards are revealed; other seats expose their hand size.
type TableView struct {
	GameID          uuid.UUID   `json:"gameId"`
	GameStarted     bool        `json:"gameStarted"`
	IsFirstPlay     bool        `json:"isFirstPlay"`
	PointMultiplier int         `json:"pointMultiplier"`
	TurnID          int         `json:"turnId"`
	CurrentTurn     *SeatID     `json:"currentTurn,omitempty"`
	ViewerSeat      *SeatID     `json:"viewerSeat,omitempty"`
	LastPlay        *PlayView   `json:"lastPlay,omitempty"`
	TrickSize       int         `json:"trickSize"`
	Seats           []SeatView  `json:"seats"`
	Hand            models.Hand `json:"hand,omitempty"`
	FinishOrder     []SeatID    `json:"finishOrder,omitempty"`
}

// View builds the snapshot for viewer. hand is the viewer's own hand and handSizes the
// card count of each seat.
func (t *GameTable) View(viewer uuid.UUID, hand models.Hand, handSizes [NumSeats]int) TableView {
	v := TableView{
		GameID:          t.ID,
		GameStarted:     t.GameStarted,
		IsFirstPlay:     t.IsFirstPlay,
		PointMultiplier: t.PointMultiplier,
		TurnID:          t.TurnID,
		TrickSize:       len(t.PlayedCards),
		FinishOrder:     append([]SeatID(nil), t.FinishOrder...),
	}
	if cur, ok := t.CurrentTurn(); ok {
		v.CurrentTurn = &cur
	}
	if last, ok := t.LastPlay(); ok {
		v.LastPlay = &PlayView{
			Seat:        last.Seat,
			Cards:       append([]models.Card(nil), last.Cards...),
			Strength:    last.Strength,
			Description: Describe(last.Cards),
		}
	}
	for _, id := range AllSeats {
		s := t.Seats[id]
		v.Seats = append(v.Seats, SeatView{
			Seat:       id,
			Occupant:   s.Occupant,
			HandSize:   handSizes[id],
			RoundPass:  s.RoundPass,
			PlayerTurn: s.PlayerTurn,
			Won:        s.Won,
			Score:      s.Score,
		})
	}
	if id, err := t.SeatOf(viewer); err == nil {
		v.ViewerSeat = &id
		v.Hand = hand.Sorted()
	}
	return v
}
