package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"emergencyHub/internal/domain"
)

const activeIncidentsKey = "emergencyhub:incidents:active"

// IncidentCache holds the active-incident snapshot used by location checks.
// A miss returns (nil, nil); callers fall back to the store.
type IncidentCache struct {
	client *goredis.Client
	key    string
}

func NewIncidentCache(r *Redis) *IncidentCache {
	return &IncidentCache{
		client: r.Client,
		key:    activeIncidentsKey,
	}
}

func (c *IncidentCache) GetActive(ctx context.Context) ([]domain.CachedIncident, error) {
	const op = "redis.IncidentCache.GetActive"

	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var incidents []domain.CachedIncident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return incidents, nil
}

func (c *IncidentCache) SetActive(ctx context.Context, incidents []domain.CachedIncident, ttl time.Duration) error {
	const op = "redis.IncidentCache.SetActive"

	if incidents == nil {
		incidents = []domain.CachedIncident{}
	}
	b, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.client.Set(ctx, c.key, b, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate drops the snapshot so the next reader rebuilds it.
func (c *IncidentCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis.IncidentCache.Invalidate: %w", err)
	}
	return nil
}
