// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"visa-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the evaluation result cache.
type RedisClient struct {
	Client *redis.Client
}

// Short timeouts: a slow Redis reads as a cache miss on the job path.
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(redisOptions(cfg))}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetClient returns the client as used by visa.ResultCache.
func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}
