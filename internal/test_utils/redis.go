package test_utils

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// TestWithRedis starts a Redis container and returns a client connected to it.
func TestWithRedis() (*tcredis.RedisContainer, *redis.Client, error) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return container, nil, err
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return container, nil, fmt.Errorf("failed to parse redis url %s: %w", uri, err)
	}
	log.Infof("Redis container started at %s", opts.Addr)

	return container, redis.NewClient(opts), nil
}
