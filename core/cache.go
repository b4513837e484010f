package core

import (
	"context"
	"time"
)

// Cache is a read-through cache for expensive queries. Implementations must
// be safe for concurrent use. A nil Cache is valid and means "disabled";
// use the Cache* helpers below to stay nil-safe.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

func CacheGet(ctx context.Context, c Cache, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.Get(ctx, key)
}

func CacheSet(ctx context.Context, c Cache, key string, val []byte, ttl time.Duration) {
	if c != nil {
		c.Set(ctx, key, val, ttl)
	}
}

func CacheDelete(ctx context.Context, c Cache, keys ...string) {
	if c != nil {
		c.Delete(ctx, keys...)
	}
}
