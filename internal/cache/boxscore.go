package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// BoxScoreCache keeps raw box score payloads in Redis so repeated exports
// of a finished schedule don't hit the API again
type BoxScoreCache struct {
	redis *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

// cachedBoxScore is the value stored under each key
type cachedBoxScore struct {
	FetchedAt time.Time `json:"fetched_at"`
	Payload   string    `json:"payload"`
}

// NewBoxScoreCache creates a cache whose entries expire after ttl.
// A zero ttl keeps entries until evicted.
func NewBoxScoreCache(redisClient *redis.Client, ttl time.Duration) *BoxScoreCache {
	return &BoxScoreCache{
		redis: redisClient,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached payload for a game. Missing and corrupt entries
// both report a miss.
func (c *BoxScoreCache) Get(ctx context.Context, gameID int64) ([]byte, bool, error) {
	value, err := c.redis.Get(ctx, buildKey(gameID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}

	var cached cachedBoxScore
	if err := sonic.UnmarshalString(value, &cached); err != nil || cached.Payload == "" {
		// Cache corruption, treat as miss
		return nil, false, nil
	}

	return []byte(cached.Payload), true, nil
}

// Set stores a raw payload for a game
func (c *BoxScoreCache) Set(ctx context.Context, gameID int64, raw []byte) error {
	data, err := sonic.Marshal(cachedBoxScore{
		FetchedAt: c.now().UTC(),
		Payload:   string(raw),
	})
	if err != nil {
		return errors.Wrap(err, "marshal cached box score")
	}

	if err := c.redis.Set(ctx, buildKey(gameID), data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// buildKey creates a Redis key for a game
// Format: boxscore:{game_id}
func buildKey(gameID int64) string {
	return fmt.Sprintf("boxscore:%d", gameID)
}
