package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(addr, password string, log zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Redis{
		client: client,
		log:    log.With().Str("component", "cache").Logger(),
	}, nil
}

// Get returns the cached value for key, or ok=false on miss or error.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return nil, false
	}
	return val, true
}

// Set stores value under key with the given TTL.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// InvalidateUser deletes every dashboard key for the user by pattern match.
func (c *Redis) InvalidateUser(ctx context.Context, userID int64) {
	pattern := userPrefix(userID) + "*"

	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("pattern", pattern).Msg("Cache invalidation scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Cache invalidation delete failed")
		return
	}

	c.log.Debug().Int64("user_id", userID).Int("keys", len(keys)).Msg("Dashboard cache invalidated")
}

// Close releases the Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}
