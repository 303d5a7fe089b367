// Package service runs table operations against the repositories. Each mutating call is
// a single atomic read-modify-write of one game; history records are published only
// after the change commits.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/sirupsen/logrus"
)

// GameRepository stores tables. WithGame must serialise calls per id and keep the
// table unchanged when fn fails.
type GameRepository interface {
	CreateGame(ctx context.Context, table *game.GameTable) error
	GetGame(ctx context.Context, id uuid.UUID) (*game.GameTable, error)
	WithGame(ctx context.Context, id uuid.UUID, fn func(context.Context, *game.GameTable) error) error
}

// UserRepository holds player hands and ratings. Calls made with the context handed to
// a WithGame callback take part in that game's update.
type UserRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	LoadHand(ctx context.Context, id uuid.UUID) (models.Hand, error)
	SaveHand(ctx context.Context, id uuid.UUID, hand models.Hand) error
	SaveRating(ctx context.Context, u *models.User) error
}

// ActionPublisher receives the history records of committed operations.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// ResultRecorder stores the per-player outcome of finished games.
type ResultRecorder interface {
	RecordGameResults(ctx context.Context, results []models.GameResult) error
}

// Config wires a Service. Actions and Results are optional.
type Config struct {
	Games   GameRepository
	Users   UserRepository
	Actions ActionPublisher
	Results ResultRecorder
	Logger  *logrus.Logger
	Rand    *rand.Rand
}

type Service struct {
	games   GameRepository
	users   UserRepository
	actions ActionPublisher
	results ResultRecorder
	log     *logrus.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	timerMu sync.Mutex
	timers  map[uuid.UUID]turnTimer
	closed  bool
}

func New(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		games:   cfg.Games,
		users:   cfg.Users,
		actions: cfg.Actions,
		results: cfg.Results,
		log:     log,
		rng:     rng,
		timers:  make(map[uuid.UUID]turnTimer),
	}
}

// Close stops every pending pass timer.
func (s *Service) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.closed = true
	for id, tt := range s.timers {
		tt.stop()
		delete(s.timers, id)
	}
}

func (s *Service) gameLog(gameID uuid.UUID) *logrus.Entry {
	return s.log.WithField("game", gameID)
}

// reject logs a failed operation at a level matching its cause and passes err through.
func (s *Service) reject(gameID uuid.UUID, op string, err error) error {
	entry := s.gameLog(gameID).WithField("op", op).WithError(err)
	if game.IsRuleViolation(err) || errors.Is(err, game.ErrGameNotFound) || errors.Is(err, errStaleTurn) {
		entry.Debug("operation rejected")
	} else {
		entry.Error("operation failed")
	}
	return err
}

// update runs fn inside the repository's atomic update and publishes the records it
// produced once the update has committed.
func (s *Service) update(ctx context.Context, gameID uuid.UUID, op string, fn func(context.Context, *game.GameTable, *actionLog) error) (*game.GameTable, error) {
	var (
		committed *game.GameTable
		log       *actionLog
	)
	err := s.games.WithGame(ctx, gameID, func(ctx context.Context, t *game.GameTable) error {
		log = &actionLog{table: t}
		if err := fn(ctx, t, log); err != nil {
			return err
		}
		committed = t.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(gameID, op, err)
	}
	s.publish(ctx, log.records)
	s.schedule(committed)
	return committed, nil
}

// CreateTable stores a new empty table.
func (s *Service) CreateTable(ctx context.Context, rules game.HouseRules) (*game.GameTable, error) {
	if !game.ValidPointMultiplier(rules.PointMultiplier) {
		return nil, fmt.Errorf("%w: %d", game.ErrInvalidPointMultiplier, rules.PointMultiplier)
	}
	t := game.NewGameTable(uuid.New(), rules)
	if err := s.games.CreateGame(ctx, t); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	s.gameLog(t.ID).WithField("point_multiplier", t.PointMultiplier).Info("table created")
	return t, nil
}

// TakeSeat seats actor at the 1-based seat number.
func (s *Service) TakeSeat(ctx context.Context, gameID, actor uuid.UUID, seatNumber int) error {
	_, err := s.update(ctx, gameID, "take_seat", func(_ context.Context, t *game.GameTable, log *actionLog) error {
		if err := t.TakeSeat(actor, seatNumber); err != nil {
			return err
		}
		log.add(actor, cache.ActionSeatTaken, map[string]interface{}{"seat": seatNumber})
		return nil
	})
	return err
}

func (s *Service) LeaveSeat(ctx context.Context, gameID, actor uuid.UUID) error {
	_, err := s.update(ctx, gameID, "leave_seat", func(_ context.Context, t *game.GameTable, log *actionLog) error {
		id, _ := t.SeatOf(actor)
		if err := t.LeaveSeat(actor); err != nil {
			return err
		}
		log.add(actor, cache.ActionSeatLeft, map[string]interface{}{"seat": id.Number()})
		return nil
	})
	return err
}

// SetPointMultiplier changes the stake of the next game.
func (s *Service) SetPointMultiplier(ctx context.Context, gameID, actor uuid.UUID, pm int) error {
	_, err := s.update(ctx, gameID, "set_multiplier", func(_ context.Context, t *game.GameTable, log *actionLog) error {
		if err := t.SetPointMultiplier(pm); err != nil {
			return err
		}
		log.add(actor, cache.ActionMultiplierSet, map[string]interface{}{"pointMultiplier": pm})
		return nil
	})
	return err
}

// UpdateRules applies house-rule changes, as decoded from a JSON object, to the next game.
func (s *Service) UpdateRules(ctx context.Context, gameID, actor uuid.UUID, changes map[string]interface{}) (game.HouseRules, error) {
	t, err := s.update(ctx, gameID, "update_rules", func(_ context.Context, t *game.GameTable, log *actionLog) error {
		if err := t.UpdateRules(changes); err != nil {
			return err
		}
		log.add(actor, cache.ActionRulesUpdated, map[string]interface{}{"changes": changes})
		return nil
	})
	if err != nil {
		return game.HouseRules{}, err
	}
	return t.Rules, nil
}

func (s *Service) newDeal() game.Deal {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return game.NewDeal(s.rng)
}

// StartGame shuffles, deals and stores every hand with the started table.
func (s *Service) StartGame(ctx context.Context, gameID, actor uuid.UUID) (game.StartResult, error) {
	deal := s.newDeal()
	var res game.StartResult
	t, err := s.update(ctx, gameID, "start_game", func(ctx context.Context, t *game.GameTable, log *actionLog) error {
		var err error
		if res, err = t.StartGame(deal); err != nil {
			return err
		}
		for player, hand := range res.Hands {
			if err := s.users.SaveHand(ctx, player, hand); err != nil {
				return fmt.Errorf("save hand of %s: %w", player, err)
			}
		}
		players := make([]string, 0, game.NumSeats)
		for _, id := range t.Occupants() {
			players = append(players, id.String())
		}
		log.add(actor, cache.ActionGameStart, map[string]interface{}{
			"players":         players,
			"firstTurn":       res.FirstTurn.String(),
			"pointMultiplier": t.PointMultiplier,
		})
		return nil
	})
	if err != nil {
		return game.StartResult{}, err
	}
	s.gameLog(gameID).WithFields(logrus.Fields{
		"first_turn":       res.FirstTurn,
		"point_multiplier": t.PointMultiplier,
	}).Info("game started")
	return res, nil
}

// PlayCards plays cards from actor's stored hand.
func (s *Service) PlayCards(ctx context.Context, gameID, actor uuid.UUID, cards []models.Card) (game.PlayResult, error) {
	var res game.PlayResult
	t, err := s.update(ctx, gameID, "play_cards", func(ctx context.Context, t *game.GameTable, log *actionLog) error {
		var err error
		res, err = s.play(ctx, t, log, actor, cards)
		return err
	})
	if err != nil {
		return game.PlayResult{}, err
	}
	s.afterPlay(ctx, t, res)
	return res, nil
}

// play applies a play inside an update. The turn and seat checks run before the hand is
// loaded so that an outsider gets the engine's error rather than a lookup failure.
func (s *Service) play(ctx context.Context, t *game.GameTable, log *actionLog, actor uuid.UUID, cards []models.Card) (game.PlayResult, error) {
	if !t.GameStarted {
		return game.PlayResult{}, game.ErrGameNotStarted
	}
	if _, err := t.SeatOf(actor); err != nil {
		return game.PlayResult{}, err
	}
	hand, err := s.users.LoadHand(ctx, actor)
	if err != nil {
		return game.PlayResult{}, fmt.Errorf("load hand: %w", err)
	}
	remaining, res, err := t.PlayCards(actor, cards, hand)
	if err != nil {
		return game.PlayResult{}, err
	}
	if err := s.users.SaveHand(ctx, actor, remaining); err != nil {
		return game.PlayResult{}, fmt.Errorf("save hand: %w", err)
	}

	log.add(actor, cache.ActionPlayCards, map[string]interface{}{
		"seat":        res.Seat.String(),
		"cards":       cardStrings(res.Combination.Cards),
		"kind":        res.Combination.Kind.String(),
		"strength":    res.Combination.Strength,
		"description": game.Describe(res.Combination.Cards),
	})
	if len(res.Chops) > 0 {
		log.add(actor, cache.ActionChop, map[string]interface{}{
			"seat":    res.Seat.String(),
			"targets": res.Chops,
			"points":  res.ChopPoints,
		})
	}
	if res.Won {
		log.add(actor, cache.ActionPlayerOut, map[string]interface{}{
			"seat":  res.Seat.String(),
			"place": res.Place,
		})
	}
	if res.GameOver {
		log.add(uuid.Nil, cache.ActionGameEnd, finalPayload(t, res.Loser))
	}
	return res, nil
}

func (s *Service) afterPlay(ctx context.Context, t *game.GameTable, res game.PlayResult) {
	entry := s.gameLog(t.ID).WithField("seat", res.Seat)
	if len(res.Chops) > 0 {
		entry.WithFields(logrus.Fields{"targets": len(res.Chops), "points": res.ChopPoints}).Info("chop")
	}
	if res.Won {
		entry.WithField("place", res.Place).Info("player out")
	}
	if res.GameOver {
		entry.WithField("loser", res.Loser).Info("game over")
		s.finalizeRatings(ctx, t)
	}
}

// PassRound passes actor for the current trick.
func (s *Service) PassRound(ctx context.Context, gameID, actor uuid.UUID) (game.PassResult, error) {
	var res game.PassResult
	_, err := s.update(ctx, gameID, "pass_round", func(_ context.Context, t *game.GameTable, log *actionLog) error {
		var err error
		res, err = pass(t, log, actor)
		return err
	})
	if err != nil {
		return game.PassResult{}, err
	}
	if res.TrickCleared {
		s.gameLog(gameID).WithField("leader", res.NextTurn).Info("trick cleared")
	}
	return res, nil
}

func pass(t *game.GameTable, log *actionLog, actor uuid.UUID) (game.PassResult, error) {
	res, err := t.PassRound(actor)
	if err != nil {
		return res, err
	}
	log.add(actor, cache.ActionPassRound, map[string]interface{}{"seat": res.Seat.String()})
	if res.TrickCleared {
		log.add(uuid.Nil, cache.ActionTrickCleared, map[string]interface{}{"leader": res.NextTurn.String()})
	}
	return res, nil
}

// GetTableView returns the table as seen by viewer.
func (s *Service) GetTableView(ctx context.Context, gameID, viewer uuid.UUID) (game.TableView, error) {
	t, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return game.TableView{}, s.reject(gameID, "view", err)
	}
	var (
		sizes [game.NumSeats]int
		own   models.Hand
	)
	if t.GameStarted {
		for _, id := range game.AllSeats {
			occupant := t.Seats[id].Occupant
			hand, err := s.users.LoadHand(ctx, occupant)
			if err != nil {
				return game.TableView{}, s.reject(gameID, "view", fmt.Errorf("load hand: %w", err))
			}
			sizes[id] = len(hand)
			if occupant == viewer {
				own = hand
			}
		}
	}
	return t.View(viewer, own, sizes), nil
}

func cardStrings(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
