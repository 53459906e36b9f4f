package repository

import (
	"context"
	"fmt"
	"time"

	"meetbook/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisLimiterRepository counts requests per client in redis, so the limit
// holds across process restarts.
type RedisLimiterRepository struct {
	client *redis.Client
}

// NewRedisClient builds a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisLimiterRepository(client *redis.Client) *RedisLimiterRepository {
	return &RedisLimiterRepository{client: client}
}

func (r *RedisLimiterRepository) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rate_limit:%s", clientKey)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Ping verifies the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
