package rating

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Worked example from Glickman's Glicko-2 paper.
func TestUpdateMatchesReferenceExample(t *testing.T) {
	player := NewGlicko2Rating(1500, 200, 0.06)
	results := []Result{
		{Opponent: NewGlicko2Rating(1400, 30, 0.06), Score: 1},
		{Opponent: NewGlicko2Rating(1550, 100, 0.06), Score: 0},
		{Opponent: NewGlicko2Rating(1700, 300, 0.06), Score: 0},
	}
	got := Update(player, results)

	assert.InDelta(t, 1464.06, got.ToElo(), 0.05)
	assert.InDelta(t, 151.52, got.RD(), 0.05)
	assert.InDelta(t, 0.05999, got.Sigma, 0.0001)
}

func TestUpdateWithoutGamesWidensDeviation(t *testing.T) {
	r := NewGlicko2Rating(1600, 50, 0.06)
	got := Update(r, nil)
	assert.Equal(t, r.Mu, got.Mu)
	assert.Greater(t, got.Phi, r.Phi)
}

func TestNewGlicko2RatingDefaults(t *testing.T) {
	r := NewGlicko2Rating(0, 0, 0)
	assert.Zero(t, r.Mu)
	assert.InDelta(t, DefaultPhi, r.RD(), 1e-9)
	assert.Equal(t, DefaultSigma, r.Sigma)
}

func TestFinalizeFourPlayer(t *testing.T) {
	users := make([]models.User, 4)
	for i := range users {
		users[i] = models.User{ID: uuid.New(), Elo4p: 1500}
	}
	order := []uuid.UUID{users[2].ID, users[0].ID, users[3].ID, users[1].ID}

	updated, err := FinalizeFourPlayer(users, order)
	require.NoError(t, err)
	require.Len(t, updated, 4)

	byID := map[uuid.UUID]models.User{}
	for _, u := range updated {
		byID[u.ID] = u
		assert.Less(t, u.Phi4p, DefaultPhi, "a rated game shrinks the deviation")
		assert.False(t, math.IsNaN(u.Sigma4p))
	}
	first, second, third, last := byID[order[0]], byID[order[1]], byID[order[2]], byID[order[3]]
	assert.Greater(t, first.Elo4p, second.Elo4p)
	assert.Greater(t, second.Elo4p, 1500)
	assert.Less(t, third.Elo4p, 1500)
	assert.Less(t, last.Elo4p, third.Elo4p)
	assert.Equal(t, users[0].ID, updated[0].ID, "input order is kept")
}

func TestFinalizeFourPlayerValidatesOrder(t *testing.T) {
	a, b := models.User{ID: uuid.New()}, models.User{ID: uuid.New()}

	_, err := FinalizeFourPlayer([]models.User{a, b}, []uuid.UUID{a.ID})
	assert.Error(t, err)

	_, err = FinalizeFourPlayer([]models.User{a, b}, []uuid.UUID{a.ID, a.ID})
	assert.Error(t, err)

	_, err = FinalizeFourPlayer([]models.User{a, b}, []uuid.UUID{a.ID, uuid.New()})
	assert.Error(t, err)
}
