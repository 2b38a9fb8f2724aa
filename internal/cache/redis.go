package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var ErrNoAddr = errors.New("REDIS_ADDR is not set")

// KV is the slice of the redis client the cache and the session store use.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisClient holds the Redis client connection
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr string) (*RedisClient, error) {
	if addr == "" {
		return nil, ErrNoAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.L().Info("connected to redis", zap.String("addr", addr), zap.String("ping", pong))

	return &RedisClient{client: client}, nil
}

func (c *RedisClient) Close() {
	if c.client != nil {
		c.client.Close()
		logger.L().Info("redis connection closed")
	}
}

// GetClient returns the underlying *redis.Client instance
func (c *RedisClient) GetClient() *redis.Client {
	return c.client
}
