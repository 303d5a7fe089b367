package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 2 * time.Second

// actionLog collects the history records of one update. Indexes come from the table so
// they survive restarts and stay gap-free when an update is rolled back.
type actionLog struct {
	table   *game.GameTable
	records []cache.GameActionRecord
}

func (l *actionLog) add(actor uuid.UUID, kind string, payload map[string]interface{}) {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	l.table.ActionCount++
	l.records = append(l.records, cache.GameActionRecord{
		GameID:        l.table.ID,
		ActionIndex:   l.table.ActionCount,
		ActorUserID:   actor,
		ActionType:    kind,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	})
}

// publish pushes committed records in order. Failures are logged; the game state is
// already stored and is not rolled back for a lost history entry.
func (s *Service) publish(ctx context.Context, records []cache.GameActionRecord) {
	if s.actions == nil || len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	for _, rec := range records {
		if err := s.actions.PublishGameAction(ctx, rec); err != nil {
			s.gameLog(rec.GameID).WithError(err).WithFields(logrus.Fields{
				"action":       rec.ActionType,
				"action_index": rec.ActionIndex,
			}).Error("publish game action")
		}
	}
}

// finalPayload summarises a finished game for the end record.
func finalPayload(t *game.GameTable, loser game.SeatID) map[string]interface{} {
	scores := make(map[string]int, game.NumSeats)
	for _, id := range game.AllSeats {
		scores[t.Seats[id].Occupant.String()] = t.Seats[id].Score
	}
	order := make([]string, len(t.FinishOrder))
	for i, id := range t.FinishOrder {
		order[i] = t.Seats[id].Occupant.String()
	}
	return map[string]interface{}{
		"scores":      scores,
		"finishOrder": order,
		"loser":       loser.String(),
	}
}
