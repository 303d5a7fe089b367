package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/big2/internal/cache"
)

// HistoryRepository persists the action history drained by the historian.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// InsertActions writes a batch of records in one transaction. Games referenced by the
// batch are created or marked in progress; an end-of-game record completes its game.
func (r *HistoryRepository) InsertActions(ctx context.Context, batch []cache.GameActionRecord) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batch {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertGameActionTx: %w", err)
			}
		}
		return nil
	})
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id)
		DO UPDATE SET status = 'in_progress', start_time = COALESCE(games.start_time, NOW())
		WHERE games.status <> 'completed' OR $2
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID, rec.ActionType == cache.ActionGameStart); err != nil {
		return err
	}

	payload := rec.ActionPayload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var actor *uuid.UUID
	if rec.ActorUserID != uuid.Nil {
		actor = &rec.ActorUserID
	}
	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor_user_id, action_type, action_payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	_, err = tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, actor, rec.ActionType, jsonPayload, time.UnixMilli(rec.Timestamp),
	)
	if err != nil {
		return err
	}

	if rec.ActionType == cache.ActionGameEnd {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

// MarkAbandoned flags an in-progress game that has gone quiet.
func (r *HistoryRepository) MarkAbandoned(ctx context.Context, gameID uuid.UUID) error {
	q := `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	_, err := r.pool.Exec(ctx, q, gameID)
	return err
}

// Actions returns the stored history of a game in order.
func (r *HistoryRepository) Actions(ctx context.Context, gameID uuid.UUID) ([]cache.GameActionRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT action_index, COALESCE(actor_user_id, '00000000-0000-0000-0000-000000000000'), action_type, action_payload, created_at
		FROM game_actions WHERE game_id = $1 ORDER BY action_index`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cache.GameActionRecord
	for rows.Next() {
		rec := cache.GameActionRecord{GameID: gameID}
		var (
			payload []byte
			at      time.Time
		)
		if err := rows.Scan(&rec.ActionIndex, &rec.ActorUserID, &rec.ActionType, &payload, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &rec.ActionPayload); err != nil {
			return nil, err
		}
		rec.Timestamp = at.UnixMilli()
		out = append(out, rec)
	}
	return out, rows.Err()
}
