package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/jason-s-yu/big2/internal/rating"
	"github.com/sirupsen/logrus"
)

// finalizeRatings updates the four-player ratings from the finishing order of t and
// stores the game results. It runs after the game state has committed; failures are
// logged and leave the game result intact.
func (s *Service) finalizeRatings(ctx context.Context, t *game.GameTable) {
	entry := s.gameLog(t.ID)
	if len(t.FinishOrder) != game.NumSeats {
		entry.WithField("finish_order", t.FinishOrder).Error("incomplete finish order, ratings not updated")
		return
	}

	order := make([]uuid.UUID, game.NumSeats)
	players := make([]models.User, game.NumSeats)
	for i, seat := range t.FinishOrder {
		order[i] = t.Seats[seat].Occupant
		u, err := s.users.GetUser(ctx, order[i])
		if err != nil {
			entry.WithError(err).WithField("player", order[i]).Error("load player for rating")
			return
		}
		players[i] = *u
	}

	updated, err := rating.FinalizeFourPlayer(players, order)
	if err != nil {
		entry.WithError(err).Error("rate game")
		return
	}

	results := make([]models.GameResult, game.NumSeats)
	for i := range updated {
		u := updated[i]
		if err := s.users.SaveRating(ctx, &u); err != nil {
			entry.WithError(err).WithField("player", u.ID).Error("save rating")
			return
		}
		results[i] = models.GameResult{
			GameID:    t.ID,
			UserID:    u.ID,
			Place:     i + 1,
			Score:     t.Seats[t.FinishOrder[i]].Score,
			OldRating: players[i].Elo4p,
			NewRating: u.Elo4p,
		}
		entry.WithFields(logrus.Fields{
			"player": u.ID,
			"place":  i + 1,
			"old":    players[i].Elo4p,
			"new":    u.Elo4p,
		}).Debug("rating updated")
	}

	if s.results == nil {
		return
	}
	if err := s.results.RecordGameResults(ctx, results); err != nil {
		entry.WithError(err).Error("record game results")
	}
}
