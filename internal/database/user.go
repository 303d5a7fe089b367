package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/big2/internal/models"
)

// UserRepository reads and writes player rows. Calls made with a context from
// GameRepository.WithGame join that transaction.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a user, assigning an id when none is set. Usernames are unique
// ignoring case; a clash returns models.ErrUsernameTaken.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}
	if user.Elo4p == 0 {
		user.Elo4p = 1500
	}
	hand, err := json.Marshal(nonNilHand(user.Hand))
	if err != nil {
		return err
	}
	q := `INSERT INTO users (id, username, hand, elo_4p, phi_4p, sigma_4p)
	      VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5::float8, 0), 350), COALESCE(NULLIF($6::float8, 0), 0.06))`
	_, err = conn(ctx, r.pool).Exec(ctx, q, user.ID, user.Username, hand, user.Elo4p, user.Phi4p, user.Sigma4p)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == usernameIndex {
		return fmt.Errorf("%w: %s", models.ErrUsernameTaken, user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var (
		u    models.User
		hand []byte
	)
	q := `
	SELECT id, username, hand, elo_4p, phi_4p, sigma_4p
	FROM users
	WHERE id=$1
	`
	err := conn(ctx, r.pool).QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Username, &hand, &u.Elo4p, &u.Phi4p, &u.Sigma4p,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hand, &u.Hand); err != nil {
		return nil, fmt.Errorf("decode hand of %s: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) LoadHand(ctx context.Context, id uuid.UUID) (models.Hand, error) {
	var raw []byte
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT hand FROM users WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var hand models.Hand
	if err := json.Unmarshal(raw, &hand); err != nil {
		return nil, fmt.Errorf("decode hand of %s: %w", id, err)
	}
	return hand, nil
}

func (r *UserRepository) SaveHand(ctx context.Context, id uuid.UUID, hand models.Hand) error {
	raw, err := json.Marshal(nonNilHand(hand))
	if err != nil {
		return err
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE users SET hand=$1 WHERE id=$2`, raw, id)
	if err != nil {
		return fmt.Errorf("save hand of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", models.ErrUserNotFound, id)
	}
	return nil
}

// SaveRating stores the user's four-player Glicko-2 fields.
func (r *UserRepository) SaveRating(ctx context.Context, u *models.User) error {
	q := `
	UPDATE users
	SET elo_4p=$1, phi_4p=$2, sigma_4p=$3
	WHERE id=$4
	`
	_, err := conn(ctx, r.pool).Exec(ctx, q, u.Elo4p, u.Phi4p, u.Sigma4p, u.ID)
	return err
}

func nonNilHand(h models.Hand) models.Hand {
	if h == nil {
		return models.Hand{}
	}
	return h
}
