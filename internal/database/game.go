// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/big2/internal/game"
)

// GameRepository stores each table as a JSONB document in games.state.
type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

// CreateGame inserts a new table, or replaces the state of an existing row with the same id.
func (r *GameRepository) CreateGame(ctx context.Context, table *game.GameTable) error {
	state, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", table.ID, err)
	}
	q := `
		INSERT INTO games (id, status, state)
		VALUES ($1, 'waiting', $2)
		ON CONFLICT (id) DO UPDATE SET state = $2, updated_at = NOW()
	`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, table.ID, state); err != nil {
		return fmt.Errorf("insert game %s: %w", table.ID, err)
	}
	return nil
}

// GetGame loads a table without locking it.
func (r *GameRepository) GetGame(ctx context.Context, id uuid.UUID) (*game.GameTable, error) {
	return loadGame(ctx, conn(ctx, r.pool), id, `SELECT state FROM games WHERE id = $1`)
}

// WithGame locks the row, runs fn and writes the table back in the same transaction.
// fn receives a context that carries the transaction, so UserRepository calls made with
// it commit or roll back together with the table.
func (r *GameRepository) WithGame(ctx context.Context, id uuid.UUID, fn func(context.Context, *game.GameTable) error) error {
	return inTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		table, err := loadGame(ctx, tx, id, `SELECT state FROM games WHERE id = $1 FOR UPDATE`)
		if err != nil {
			return err
		}
		if err := fn(ctx, table); err != nil {
			return err
		}
		state, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("marshal game %s: %w", id, err)
		}
		_, err = tx.Exec(ctx, `UPDATE games SET state = $1, updated_at = NOW() WHERE id = $2`, state, id)
		if err != nil {
			return fmt.Errorf("update game %s: %w", id, err)
		}
		return nil
	})
}

func loadGame(ctx context.Context, q querier, id uuid.UUID, query string) (*game.GameTable, error) {
	var state []byte
	err := q.QueryRow(ctx, query, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && state == nil) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	var table game.GameTable
	if err := json.Unmarshal(state, &table); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &table, nil
}
