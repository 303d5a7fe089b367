package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/big2/internal/models"
)

// RatingModeFourPlayer tags rating rows produced by four-player games.
const RatingModeFourPlayer = "4p"

// ResultRepository records finished games.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// RecordGameResults writes one game_results row and one ratings row per player.
func (r *ResultRepository) RecordGameResults(ctx context.Context, results []models.GameResult) error {
	err := inTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, res := range results {
			q := `
				INSERT INTO game_results (game_id, player_id, place, score)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET place=$3, score=$4
			`
			if _, err := tx.Exec(ctx, q, res.GameID, res.UserID, res.Place, res.Score); err != nil {
				return err
			}
			insQ := `
				INSERT INTO ratings (user_id, game_id, old_rating, new_rating, rating_mode)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.Exec(ctx, insQ, res.UserID, res.GameID, res.OldRating, res.NewRating, RatingModeFourPlayer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record results: %w", err)
	}
	return nil
}
