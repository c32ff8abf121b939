package redis

import (
	"context"

	"owl-care/owl-common/config"

	"github.com/go-redis/redis/v8"
)

// Client alias so callers only import owl-common/redis
type Client = redis.Client

// NewRedisClient creates a Redis client (no connection is made until first use)
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the connection
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the client, nil-safe
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
