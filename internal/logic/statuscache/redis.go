package statuscache

import (
	"context"
	"fmt"
	"time"

	"trusted-swap-sol/internal/types"

	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const signaturePrefix = "status:tx"

// RedisCache 基于 Redis SETNX 的签名判重，可在多个进程间共享
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) getKey(signature types.Hash) string {
	return fmt.Sprintf("%s:%s", signaturePrefix, signature)
}

func (r *RedisCache) CheckAndMark(ctx context.Context, signature types.Hash) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, r.getKey(signature), 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

// Forget 删除签名记录（仅用于运维或测试清理）
func (r *RedisCache) Forget(ctx context.Context, signature types.Hash) error {
	return r.rdb.Del(ctx, r.getKey(signature)).Err()
}
