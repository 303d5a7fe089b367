package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// usernameIndex makes usernames unique regardless of case.
const usernameIndex = "users_username_lower"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		username   TEXT NOT NULL,
		hand       JSONB NOT NULL DEFAULT '[]',
		elo_4p     INT NOT NULL DEFAULT 1500,
		phi_4p     DOUBLE PRECISION NOT NULL DEFAULT 350,
		sigma_4p   DOUBLE PRECISION NOT NULL DEFAULT 0.06,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + usernameIndex + ` ON users (lower(username))`,
	`CREATE TABLE IF NOT EXISTS games (
		id         UUID PRIMARY KEY,
		status     TEXT NOT NULL DEFAULT 'waiting',
		state      JSONB,
		start_time TIMESTAMPTZ,
		end_time   TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		action_index   INT NOT NULL,
		actor_user_id  UUID,
		action_type    TEXT NOT NULL,
		action_payload JSONB NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, action_index)
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id   UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES users(id),
		place     INT NOT NULL,
		score     INT NOT NULL,
		PRIMARY KEY (game_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id     UUID NOT NULL REFERENCES users(id),
		game_id     UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		old_rating  INT NOT NULL,
		new_rating  INT NOT NULL,
		rating_mode TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
