package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker keeps last-alert times in Redis so that several service
// instances share one cooldown state. The key carries a TTL equal to the
// window, so eligibility is simply key absence.
type RedisTracker struct {
	client *redis.Client
	window time.Duration
}

// NewRedisTracker builds a Redis-backed tracker.
func NewRedisTracker(client *redis.Client, window time.Duration) *RedisTracker {
	return &RedisTracker{client: client, window: window}
}

func (t *RedisTracker) key(deviceID string) string {
	return fmt.Sprintf("cooldown:last-alert:%s", deviceID)
}

// Eligible implements Tracker.
func (t *RedisTracker) Eligible(ctx context.Context, deviceID string, _ time.Time) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(deviceID)).Result()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Record implements Tracker.
func (t *RedisTracker) Record(ctx context.Context, deviceID string, now time.Time) error {
	return t.client.Set(ctx, t.key(deviceID), now.UnixMilli(), t.window).Err()
}
