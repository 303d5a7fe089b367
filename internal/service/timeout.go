package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/sirupsen/logrus"
)

// errStaleTurn aborts a timeout whose turn has already moved on.
var errStaleTurn = errors.New("turn already advanced")

const expireTimeout = 5 * time.Second

// turnTimer is the pass timer of one game. turnID is the newest turn seen for the game;
// timer is nil while no turn needs one.
type turnTimer struct {
	turnID int
	timer  *time.Timer
}

func (tt turnTimer) stop() {
	if tt.timer != nil {
		tt.timer.Stop()
	}
}

// schedule arms the pass timer for the committed table, replacing any earlier timer.
// Updates may reach schedule out of commit order, so a table older than the newest turn
// already seen is ignored. Tables without a pass timeout or without a running game get
// no timer.
func (s *Service) schedule(t *game.GameTable) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.closed {
		return
	}
	prev, seen := s.timers[t.ID]
	if seen && t.TurnID < prev.turnID {
		return
	}
	prev.stop()

	next := turnTimer{turnID: t.TurnID}
	defer func() { s.timers[t.ID] = next }()
	if !t.GameStarted || t.Rules.PassTimeoutSec <= 0 {
		return
	}
	if _, ok := t.CurrentTurn(); !ok {
		return
	}
	gameID, turnID := t.ID, t.TurnID
	next.timer = time.AfterFunc(time.Duration(t.Rules.PassTimeoutSec)*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
		defer cancel()
		_ = s.ExpireTurn(ctx, gameID, turnID)
	})
}

// ExpireTurn acts for the seat holding turn turnID when its time ran out: it passes, or
// plays the 3 of diamonds when the game has not had its opening play yet. A turn that has
// already moved on is left alone and reports no error.
func (s *Service) ExpireTurn(ctx context.Context, gameID uuid.UUID, turnID int) error {
	var (
		forced  uuid.UUID
		played  bool
		playRes game.PlayResult
	)
	t, err := s.update(ctx, gameID, "pass_timeout", func(ctx context.Context, t *game.GameTable, log *actionLog) error {
		if !t.GameStarted || t.TurnID != turnID {
			return errStaleTurn
		}
		seat, ok := t.CurrentTurn()
		if !ok {
			return errStaleTurn
		}
		forced = t.Seats[seat].Occupant
		log.add(forced, cache.ActionPassTimeout, map[string]interface{}{
			"seat":   seat.String(),
			"turnId": turnID,
		})
		if t.IsFirstPlay {
			var err error
			playRes, err = s.play(ctx, t, log, forced, []models.Card{models.ThreeOfDiamonds})
			played = true
			return err
		}
		_, err := pass(t, log, forced)
		return err
	})
	if errors.Is(err, errStaleTurn) {
		return nil
	}
	if err != nil {
		return err
	}
	s.gameLog(gameID).WithFields(logrus.Fields{
		"player":  forced,
		"turn_id": turnID,
		"played":  played,
	}).Info("turn timed out")
	if played {
		s.afterPlay(ctx, t, playRes)
	}
	return nil
}
