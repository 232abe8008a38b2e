package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

type RedisCache struct {
	client *redis.Client
}

func (r RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Set adds up to 10% jitter to ttl so entries written together do not
// expire together.
func (r RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > 0 {
		if spread := int64(ttl / 10); spread > 0 {
			ttl += time.Duration(rand.Int63n(spread))
		}
	} else {
		ttl = 0
	}
	if err := r.client.Set(ctx, cacheKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return keyPrefix + key
}
