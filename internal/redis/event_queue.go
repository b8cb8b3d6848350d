package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
)

// EventQueue is a FIFO list of events waiting for webhook delivery:
// LPUSH on enqueue, BRPOP on dequeue.
type EventQueue struct {
	client *redis.Client
	key    string
}

func NewEventQueue(client *redis.Client, key string) *EventQueue {
	return &EventQueue{client: client, key: key}
}

func (q *EventQueue) Enqueue(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.EventQueue.Enqueue: %w", err)
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// BRPop waits up to timeout and returns e.ErrEventQueueEmpty when nothing arrived.
func (q *EventQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.Event, error) {
	var ev domain.Event

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ev, e.ErrEventQueueEmpty
		}
		return ev, err
	}
	if len(res) < 2 {
		return ev, e.ErrEventQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return ev, fmt.Errorf("redis.EventQueue.BRPop: %w", err)
	}
	return ev, nil
}

func (q *EventQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
