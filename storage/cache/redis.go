package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mahudhurio/backend/core"
)

type redisCache struct {
	client *redis.Client
	prefix string
	logger core.Logger
}

var _ core.Cache = (*redisCache)(nil)

// NewRedisCache connects to Redis and fails fast when it is unreachable;
// callers fall back to running uncached.
func NewRedisCache(conf *core.Config, logger core.Logger) (core.Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisCache{
		client: client,
		prefix: conf.AppName + ":",
		logger: logger,
	}, nil
}

func (c *redisCache) key(key string) string {
	return c.prefix + key
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(fmt.Sprintf("cache get %s: %v", key, err), err)
		}
		return nil, false
	}
	return data, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.key(key), val, ttl).Err(); err != nil {
		c.logger.Warn(fmt.Sprintf("cache set %s: %v", key, err), err)
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, c.key(k))
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		c.logger.Warn(fmt.Sprintf("cache delete: %v", err), err)
	}
}
