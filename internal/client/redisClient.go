package client

import (
	"context"
	"fmt"
	"time"

	"commerce-console/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient connects to Redis, which backs the payment-attempt latch
// and the checkout resume tokens.
func InitRedisClient(cfg *config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}
