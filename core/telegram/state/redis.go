package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// KV is the subset of *redis.Client used by the redis tracker.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ KV = (*redis.Client)(nil)

type redisTracker struct {
	client KV
	ttl    time.Duration
}

// NewRedisTracker stores live message ids under live_msg:<user id>.
// A zero ttl keeps entries until overwritten.
func NewRedisTracker(client KV, ttl time.Duration) Tracker {
	return &redisTracker{client: client, ttl: ttl}
}

func liveKey(userID int64) string {
	return "live_msg:" + strconv.FormatInt(userID, 10)
}

func (r *redisTracker) Get(ctx context.Context, userID int64) (int, bool, error) {
	raw, err := r.client.Get(ctx, liveKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("state: get live message: %w", err)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("state: corrupt live message id %q: %w", raw, err)
	}
	return id, true, nil
}

func (r *redisTracker) Set(ctx context.Context, userID int64, messageID int) error {
	if err := r.client.Set(ctx, liveKey(userID), messageID, r.ttl).Err(); err != nil {
		return fmt.Errorf("state: set live message: %w", err)
	}
	return nil
}

// NewRedisClient dials redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("state: redis ping %s: %w", addr, err)
	}
	return client, nil
}
