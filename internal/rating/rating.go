package rating

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/models"
)

// FinalizeFourPlayer rates a finished game. order lists user ids from first out to last;
// every player is scored pairwise against the other three (ahead = win, behind = loss).
// The returned users carry updated Elo4p, Phi4p and Sigma4p, in the order of players.
func FinalizeFourPlayer(players []models.User, order []uuid.UUID) ([]models.User, error) {
	if len(players) != len(order) {
		return nil, fmt.Errorf("rating: %d players but %d finishers", len(players), len(order))
	}
	place := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		if _, dup := place[id]; dup {
			return nil, fmt.Errorf("rating: %s finishes twice", id)
		}
		place[id] = i
	}

	before := make([]Glicko2Rating, len(players))
	for i, u := range players {
		if _, ok := place[u.ID]; !ok {
			return nil, fmt.Errorf("rating: %s has no finishing place", u.ID)
		}
		before[i] = NewGlicko2Rating(float64(u.Elo4p), u.Phi4p, u.Sigma4p)
	}

	updated := make([]models.User, len(players))
	for i, u := range players {
		var results []Result
		for j, opp := range players {
			if i == j {
				continue
			}
			score := 0.0
			if place[u.ID] < place[opp.ID] {
				score = 1.0
			}
			results = append(results, Result{Opponent: before[j], Score: score})
		}
		r := Update(before[i], results)
		u.Elo4p = int(math.Round(r.ToElo()))
		u.Phi4p = r.RD()
		u.Sigma4p = r.Sigma
		updated[i] = u
	}
	return updated, nil
}
