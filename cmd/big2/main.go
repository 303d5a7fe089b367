// cmd/big2/main.go plays a self-play table through the full stack: Postgres for tables,
// hands and ratings, Redis for the action history.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/jason-s-yu/big2/internal/config"
	"github.com/jason-s-yu/big2/internal/database"
	"github.com/jason-s-yu/big2/internal/game"
	"github.com/jason-s-yu/big2/internal/models"
	"github.com/jason-s-yu/big2/internal/service"
	"github.com/sirupsen/logrus"
)

const maxMoves = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("self-play failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	pool, err := database.Connect(ctx, cfg.PostgresURL())
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	queue, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Queue: cfg.HistorianQueue})
	if err != nil {
		return err
	}
	defer queue.Close()

	users := database.NewUserRepository(pool)
	svc := service.New(service.Config{
		Games:   database.NewGameRepository(pool),
		Users:   users,
		Actions: queue,
		Results: database.NewResultRepository(pool),
		Logger:  logger,
	})
	defer svc.Close()

	table, err := svc.CreateTable(ctx, game.DefaultHouseRules())
	if err != nil {
		return err
	}
	if _, err := svc.UpdateRules(ctx, table.ID, uuid.Nil, map[string]interface{}{
		"pointMultiplier": cfg.PointMultiplier,
		"passTimeoutSec":  int(cfg.PassTimeout.Seconds()),
	}); err != nil {
		return err
	}

	for i := 1; i <= game.NumSeats; i++ {
		u := &models.User{Username: fmt.Sprintf("bot-%d-%s", i, table.ID.String()[:8])}
		if err := users.CreateUser(ctx, u); err != nil {
			return err
		}
		if err := svc.TakeSeat(ctx, table.ID, u.ID, i); err != nil {
			return err
		}
	}
	if _, err := svc.StartGame(ctx, table.ID, uuid.Nil); err != nil {
		return err
	}

	for moves := 0; moves < maxMoves; moves++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		view, err := svc.GetTableView(ctx, table.ID, uuid.Nil)
		if err != nil {
			return err
		}
		if !view.GameStarted {
			for _, s := range view.Seats {
				logger.WithFields(logrus.Fields{"seat": s.Seat, "score": s.Score}).Info("final score")
			}
			return nil
		}
		if view.CurrentTurn == nil {
			return errors.New("running game without a current turn")
		}
		actor := view.Seats[*view.CurrentTurn].Occupant
		own, err := svc.GetTableView(ctx, table.ID, actor)
		if err != nil {
			return err
		}
		cards, pass := choose(own, own.Hand)
		if pass {
			_, err = svc.PassRound(ctx, table.ID, actor)
		} else {
			_, err = svc.PlayCards(ctx, table.ID, actor, cards)
		}
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("game %s did not finish within %d moves", table.ID, maxMoves)
}
