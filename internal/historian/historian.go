// Package historian drains the Redis action queue into Postgres in batches and marks
// games abandoned after a period without actions.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/big2/internal/cache"
	"github.com/sirupsen/logrus"
)

// Source yields queued action records.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (cache.GameActionRecord, bool, error)
}

// Sink persists action records.
type Sink interface {
	InsertActions(ctx context.Context, batch []cache.GameActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Options tune batching and inactivity handling.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	PopTimeout    time.Duration
	Inactivity    time.Duration
	SweepInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = time.Second
	}
	if o.PopTimeout <= 0 {
		o.PopTimeout = 3 * time.Second
	}
	if o.Inactivity <= 0 {
		o.Inactivity = 10 * time.Minute
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = time.Minute
	}
	return o
}

// Service is the historian worker.
type Service struct {
	src  Source
	sink Sink
	log  *logrus.Logger
	opts Options

	lastActivity sync.Map // uuid.UUID -> time.Time

	batchMu sync.Mutex
	batch   []cache.GameActionRecord

	// flushMu serialises writes so batches reach the sink in order.
	flushMu sync.Mutex
}

func New(src Source, sink Sink, log *logrus.Logger, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		src:   src,
		sink:  sink,
		log:   log,
		opts:  opts,
		batch: make([]cache.GameActionRecord, 0, opts.BatchSize),
	}
}

// Run blocks until ctx is cancelled, then flushes whatever is still buffered.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.tickLoop(ctx)
	}()

	s.log.Info("historian started")
	<-ctx.Done()
	wg.Wait()

	// final flush outlives the cancelled context
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.Flush(flushCtx)
	s.log.Info("historian stopped")
	return err
}

func (s *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		rec, ok, err := s.src.Pop(ctx, s.opts.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.WithError(err).Error("pop action record")
			// avoid spinning on a broken connection
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if !ok {
			continue
		}
		s.Add(ctx, rec)
	}
}

func (s *Service) tickLoop(ctx context.Context) {
	flush := time.NewTicker(s.opts.FlushInterval)
	defer flush.Stop()
	sweep := time.NewTicker(s.opts.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-flush.C:
			_ = s.Flush(ctx)
		case now := <-sweep.C:
			s.SweepInactive(ctx, now)
		}
	}
}

// Add buffers a record and flushes once the batch is full. An end-of-game record stops
// inactivity tracking for its game.
func (s *Service) Add(ctx context.Context, rec cache.GameActionRecord) {
	if rec.ActionType == cache.ActionGameEnd {
		s.lastActivity.Delete(rec.GameID)
	} else {
		s.lastActivity.Store(rec.GameID, time.Now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		_ = s.Flush(ctx)
	}
}

// Pending reports the number of buffered records.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}

// Flush writes the buffered records in one transaction. On failure the records are put
// back at the head of the buffer for the next attempt.
func (s *Service) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return nil
	}
	pending := s.batch
	s.batch = make([]cache.GameActionRecord, 0, s.opts.BatchSize)
	s.batchMu.Unlock()

	if err := s.sink.InsertActions(ctx, pending); err != nil {
		s.log.WithError(err).WithField("records", len(pending)).Error("flush action batch")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return err
	}
	s.log.WithField("records", len(pending)).Debug("flushed action batch")
	return nil
}

// SweepInactive marks games without activity since now-Inactivity as abandoned and
// returns how many were marked.
func (s *Service) SweepInactive(ctx context.Context, now time.Time) int {
	marked := 0
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.opts.Inactivity {
			return true
		}
		// pending actions of the game must land before its status changes
		if err := s.Flush(ctx); err != nil {
			return false
		}
		if err := s.sink.MarkAbandoned(ctx, gameID); err != nil {
			s.log.WithError(err).WithField("game", gameID).Error("mark game abandoned")
			return true
		}
		s.lastActivity.Delete(gameID)
		s.log.WithField("game", gameID).Info("marked game abandoned due to inactivity")
		marked++
		return true
	})
	return marked
}
