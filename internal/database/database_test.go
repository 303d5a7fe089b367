package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to the database named by BIG2_PG_URL, or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("BIG2_PG_URL")
	if url == "" {
		t.Skip("BIG2_PG_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestGameRepositoryRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewGameRepository(pool)

	table := game.NewGameTable(uuid.New(), game.DefaultHouseRules())
	require.NoError(t, repo.CreateGame(ctx, table))

	player := uuid.New()
	require.NoError(t, repo.WithGame(ctx, table.ID, func(_ context.Context, g *game.GameTable) error {
		return g.TakeSeat(player, 3)
	}))

	err := repo.WithGame(ctx, table.ID, func(_ context.Context, g *game.GameTable) error {
		g.Seats[game.PlayerThree].Score = 400
		return game.ErrSeatTaken
	})
	assert.ErrorIs(t, err, game.ErrSeatTaken)

	got, err := repo.GetGame(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, player, got.Seats[game.PlayerThree].Occupant)
	assert.Zero(t, got.Seats[game.PlayerThree].Score)
	assert.Equal(t, table.Rules, got.Rules)

	_, err = repo.GetGame(ctx, uuid.New())
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestHandSavedInsideGameTransactionRollsBack(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	games, users := NewGameRepository(pool), NewUserRepository(pool)

	u := &models.User{Username: "rollback-" + uuid.NewString()}
	require.NoError(t, users.CreateUser(ctx, u))
	table := game.NewGameTable(uuid.New(), game.DefaultHouseRules())
	require.NoError(t, games.CreateGame(ctx, table))

	boom := errors.New("boom")
	err := games.WithGame(ctx, table.ID, func(ctx context.Context, _ *game.GameTable) error {
		if err := users.SaveHand(ctx, u.ID, models.Hand{models.ThreeOfDiamonds}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	hand, err := users.LoadHand(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, hand)

	require.NoError(t, users.SaveHand(ctx, u.ID, models.Hand{models.ThreeOfDiamonds}))
	loaded, err := users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Hand{models.ThreeOfDiamonds}, loaded.Hand)
	assert.Equal(t, 1500, loaded.Elo4p)

	_, err = users.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestHistoryRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	history := NewHistoryRepository(pool)

	gameID := uuid.New()
	now := time.Now().UnixMilli()
	batch := []cache.GameActionRecord{
		{GameID: gameID, ActionIndex: 1, ActionType: cache.ActionGameStart, Timestamp: now},
		{GameID: gameID, ActionIndex: 2, ActorUserID: uuid.New(), ActionType: cache.ActionPlayCards,
			ActionPayload: map[string]interface{}{"strength": 31.0}, Timestamp: now},
		{GameID: gameID, ActionIndex: 3, ActionType: cache.ActionGameEnd, Timestamp: now},
	}
	require.NoError(t, history.InsertActions(ctx, batch))
	require.NoError(t, history.InsertActions(ctx, batch[:1]), "replayed records are ignored")

	got, err := history.Actions(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, cache.ActionPlayCards, got[1].ActionType)
	assert.Equal(t, 31.0, got[1].ActionPayload["strength"])

	var status string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM games WHERE id=$1`, gameID).Scan(&status))
	assert.Equal(t, "in_progress", status, "a replayed start reopens the game")
}

func TestUsernamesAreUniqueIgnoringCase(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	name := "Dealer-" + uuid.NewString()
	require.NoError(t, users.CreateUser(ctx, &models.User{Username: name}))

	err := users.CreateUser(ctx, &models.User{Username: strings.ToUpper(name)})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	require.NoError(t, users.CreateUser(ctx, &models.User{Username: name + "-2"}))
}
