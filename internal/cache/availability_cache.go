package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps per-(court,date) slot listings in Redis for a
// short TTL. A nil *AvailabilityCache is a valid no-op cache, so callers
// never branch on whether Redis is configured.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	if client == nil {
		return nil
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

func key(courtID uint, date string) string {
	return fmt.Sprintf("avail:%d:%s", courtID, date)
}

// Get unmarshals a cached slot listing into dest. Returns false on miss or
// any Redis error — the caller just recomputes.
func (c *AvailabilityCache) Get(ctx context.Context, courtID uint, date string, dest interface{}) bool {
	if c == nil {
		return false
	}
	val, err := c.client.Get(ctx, key(courtID, date)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (c *AvailabilityCache) Set(ctx context.Context, courtID uint, date string, value interface{}) {
	if c == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key(courtID, date), b, c.ttl).Err()
}

// Invalidate drops the cached listing after any booking mutation for that
// court+date.
func (c *AvailabilityCache) Invalidate(ctx context.Context, courtID uint, date string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, key(courtID, date)).Err()
}
