package models

import (
	"errors"

	"github.com/google/uuid"
)

// User is the player record owned by the persistence layer. The engine reads and
// rewrites Hand while a game is running.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Hand     Hand      `json:"hand"`

	// Glicko-2 for four-player games
	Elo4p   int     `json:"elo_4p"`
	Phi4p   float64 `json:"phi_4p"`
	Sigma4p float64 `json:"sigma_4p"`
}

// ErrUserNotFound is returned by user lookups for unknown ids.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when a username matches an existing one, ignoring case.
var ErrUsernameTaken = errors.New("username already taken")

// GameResult is one player's line in a finished game.
type GameResult struct {
	GameID    uuid.UUID `json:"game_id"`
	UserID    uuid.UUID `json:"user_id"`
	Place     int       `json:"place"`
	Score     int       `json:"score"`
	OldRating int       `json:"old_rating"`
	NewRating int       `json:"new_rating"`
}
