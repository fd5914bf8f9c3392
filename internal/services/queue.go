package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/ledgersim/internal/models"
)

const (
	EventSettlement  = "SETTLEMENT"
	EventFraudReview = "FRAUD_REVIEW"
)

// SettlementQueue receives transactions after their status changed.
// A failed publish never undoes the state change.
type SettlementQueue interface {
	EnqueueSettlement(ctx context.Context, tx models.Transaction) error
	EnqueueFraudReview(ctx context.Context, tx models.Transaction) error
}

// QueueMessage is the payload pushed onto the Redis lists.
type QueueMessage struct {
	Event       string             `json:"event"`
	Transaction models.Transaction `json:"transaction"`
	QueuedAt    time.Time          `json:"queued_at"`
}

type RedisQueue struct {
	redis          *redis.Client
	settlementKey  string
	fraudReviewKey string
	now            func() time.Time
}

func NewRedisQueue(client *redis.Client, settlementKey, fraudReviewKey string) *RedisQueue {
	return &RedisQueue{
		redis:          client,
		settlementKey:  settlementKey,
		fraudReviewKey: fraudReviewKey,
		now:            time.Now,
	}
}

func (q *RedisQueue) EnqueueSettlement(ctx context.Context, tx models.Transaction) error {
	return q.push(ctx, q.settlementKey, EventSettlement, tx)
}

func (q *RedisQueue) EnqueueFraudReview(ctx context.Context, tx models.Transaction) error {
	return q.push(ctx, q.fraudReviewKey, EventFraudReview, tx)
}

// Depth returns the number of pending entries on both lists.
func (q *RedisQueue) Depth(ctx context.Context) (settlement, fraudReview int64, err error) {
	settlement, err = q.redis.LLen(ctx, q.settlementKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s length: %w", q.settlementKey, err)
	}
	fraudReview, err = q.redis.LLen(ctx, q.fraudReviewKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s length: %w", q.fraudReviewKey, err)
	}
	return settlement, fraudReview, nil
}

func (q *RedisQueue) push(ctx context.Context, key, event string, tx models.Transaction) error {
	data, err := json.Marshal(QueueMessage{Event: event, Transaction: tx, QueuedAt: q.now().UTC()})
	if err != nil {
		return err
	}
	return q.redis.RPush(ctx, key, data).Err()
}
