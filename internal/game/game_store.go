package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type storedGame struct {
	mu    sync.Mutex
	table *GameTable
}

// GameStore keeps tables in memory. Updates to one game are serialised; different games
// proceed independently.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*storedGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*storedGame),
	}
}

func (s *GameStore) lookup(id uuid.UUID) (*storedGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

// CreateGame stores a copy of table. An existing table with the same id is replaced.
func (s *GameStore) CreateGame(_ context.Context, table *GameTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[table.ID] = &storedGame{table: table.Clone()}
	return nil
}

// GetGame returns a copy of the stored table.
func (s *GameStore) GetGame(_ context.Context, id uuid.UUID) (*GameTable, error) {
	g, ok := s.lookup(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Clone(), nil
}

// WithGame runs fn on a copy of the table and commits it only when fn returns nil.
func (s *GameStore) WithGame(ctx context.Context, id uuid.UUID, fn func(context.Context, *GameTable) error) error {
	g, ok := s.lookup(id)
	if !ok {
		return ErrGameNotFound
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	working := g.table.Clone()
	if err := fn(ctx, working); err != nil {
		return err
	}
	g.table = working
	return nil
}
