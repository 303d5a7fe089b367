// internal/game/table.go
package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/models"
)

// NumSeats is fixed; every game is played four-handed.
const NumSeats = 4

// SeatID identifies one of the four seats. Seats rotate One, Two, Three, Four, One.
type SeatID int

const (
	PlayerOne SeatID = iota
	PlayerTwo
	PlayerThree
	PlayerFour
)

// AllSeats lists the seats in rotation order.
var AllSeats = [NumSeats]SeatID{PlayerOne, PlayerTwo, PlayerThree, PlayerFour}

var seatKeys = [NumSeats]string{"playerOne", "playerTwo", "playerThree", "playerFour"}

// Next returns the cyclic successor.
func (s SeatID) Next() SeatID {
	return (s + 1) % NumSeats
}

// Number is the 1-based seat number shown to players.
func (s SeatID) Number() int {
	return int(s) + 1
}

func (s SeatID) Valid() bool {
	return s >= PlayerOne && s <= PlayerFour
}

func (s SeatID) String() string {
	if !s.Valid() {
		return fmt.Sprintf("seat(%d)", int(s))
	}
	return seatKeys[s]
}

// ParseSeatID accepts "playerOne".."playerFour" (case-insensitive) or "1".."4".
func ParseSeatID(key string) (SeatID, error) {
	k := strings.TrimSpace(key)
	for i, name := range seatKeys {
		if strings.EqualFold(k, name) || k == fmt.Sprint(i+1) {
			return SeatID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrPlayerKeyNotFound, key)
}

// Seat is the per-seat state of a table. A vacant seat has a nil Occupant.
type Seat struct {
	Occupant   uuid.UUID `json:"occupant"`
	RoundPass  bool      `json:"roundPass"`
	PlayerTurn bool      `json:"playerTurn"`
	Won        bool      `json:"won"`
	Score      int       `json:"score"`
}

// Occupied reports whether someone sits here.
func (s Seat) Occupied() bool {
	return s.Occupant != uuid.Nil
}

// Play is one entry of the current trick.
type Play struct {
	Seat     SeatID        `json:"seat"`
	Player   uuid.UUID     `json:"player"`
	Cards    []models.Card `json:"cards"`
	Strength int           `json:"strength"`
}

// GameTable is the complete state of one table. Hands are held by the caller
// (user records) and passed into the operations that need them.
type GameTable struct {
	ID              uuid.UUID      `json:"id"`
	Seats           [NumSeats]Seat `json:"seats"`
	PlayedCards     []Play         `json:"playedCards"`
	GameStarted     bool           `json:"gameStarted"`
	IsFirstPlay     bool           `json:"isFirstPlay"`
	PointMultiplier int            `json:"pointMultiplier"`
	WinnerNumber    int            `json:"winnerNumber"`
	TurnID          int            `json:"turnId"`
	FinishOrder     []SeatID       `json:"finishOrder"`
	Rules           HouseRules     `json:"rules"`

	// ActionCount numbers the history records emitted for this table.
	ActionCount int `json:"actionCount"`
}

// NewGameTable returns an empty table with the given rules.
func NewGameTable(id uuid.UUID, rules HouseRules) *GameTable {
	return &GameTable{
		ID:              id,
		PointMultiplier: rules.PointMultiplier,
		WinnerNumber:    1,
		Rules:           rules,
	}
}

// Clone returns a deep copy; mutations on the copy never reach the original.
func (t *GameTable) Clone() *GameTable {
	c := *t
	if t.PlayedCards != nil {
		c.PlayedCards = make([]Play, len(t.PlayedCards))
		for i, p := range t.PlayedCards {
			p.Cards = append([]models.Card(nil), p.Cards...)
			c.PlayedCards[i] = p
		}
	}
	if t.FinishOrder != nil {
		c.FinishOrder = append([]SeatID(nil), t.FinishOrder...)
	}
	return &c
}

// SeatOf returns the seat occupied by actor.
func (t *GameTable) SeatOf(actor uuid.UUID) (SeatID, error) {
	if actor == uuid.Nil {
		return 0, ErrPlayerNotInGame
	}
	for _, id := range AllSeats {
		if t.Seats[id].Occupant == actor {
			return id, nil
		}
	}
	return 0, ErrPlayerNotInGame
}

// CurrentTurn returns the seat holding the turn, if any.
func (t *GameTable) CurrentTurn() (SeatID, bool) {
	for _, id := range AllSeats {
		if t.Seats[id].PlayerTurn {
			return id, true
		}
	}
	return 0, false
}

// LastPlay returns the most recent play of the current trick.
func (t *GameTable) LastPlay() (Play, bool) {
	if len(t.PlayedCards) == 0 {
		return Play{}, false
	}
	return t.PlayedCards[len(t.PlayedCards)-1], true
}

// Occupants returns the occupant of every seat in seat order.
func (t *GameTable) Occupants() [NumSeats]uuid.UUID {
	var out [NumSeats]uuid.UUID
	for i, s := range t.Seats {
		out[i] = s.Occupant
	}
	return out
}

func (t *GameTable) winners() int {
	n := 0
	for _, s := range t.Seats {
		if s.Won {
			n++
		}
	}
	return n
}
