// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list that carries game action records.
const DefaultQueueName = "big2_actions"

// Action types written to the history queue.
const (
	ActionGameStart     = "action_start_game"
	ActionPlayCards     = "action_play_cards"
	ActionPassRound     = "action_pass_round"
	ActionTrickCleared  = "action_trick_cleared"
	ActionChop          = "action_chop"
	ActionPlayerOut     = "action_player_out"
	ActionPassTimeout   = "action_pass_timeout"
	ActionGameEnd       = "action_end_game"
	ActionSeatTaken     = "action_take_seat"
	ActionSeatLeft      = "action_leave_seat"
	ActionMultiplierSet = "action_set_multiplier"
	ActionRulesUpdated  = "action_update_rules"
)

// GameActionRecord is one entry in a game's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Options configures the Redis connection.
type Options struct {
	Addr  string
	DB    int
	Queue string
}

// Queue pushes and pops action records on a Redis list.
type Queue struct {
	rdb   *redis.Client
	queue string
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, opts Options) (*Queue, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	return NewQueue(rdb, opts.Queue), nil
}

// NewQueue wraps an existing client. An empty name selects DefaultQueueName.
func NewQueue(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{rdb: rdb, queue: name}
}

// Name returns the Redis list key.
func (q *Queue) Name() string {
	return q.queue
}

// PublishGameAction serializes the record to JSON and appends it to the queue.
func (q *Queue) PublishGameAction(ctx context.Context, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.queue, err)
	}
	return nil
}

// Pop blocks up to timeout for the next record. It returns false when the wait timed out.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (GameActionRecord, bool, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.queue).Result()
	if errors.Is(err, redis.Nil) {
		return GameActionRecord{}, false, nil
	}
	if err != nil {
		return GameActionRecord{}, false, fmt.Errorf("BLPop %s: %w", q.queue, err)
	}
	// res[0] is the key, res[1] the payload
	if len(res) < 2 {
		return GameActionRecord{}, false, nil
	}
	var record GameActionRecord
	if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
		return GameActionRecord{}, false, fmt.Errorf("invalid action record: %w", err)
	}
	return record, true, nil
}

// Len reports the number of queued records.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queue).Result()
}

// Close releases the client.
func (q *Queue) Close() error {
	return q.rdb.Close()
}
