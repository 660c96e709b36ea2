package statuscache

import (
	"context"
	"fmt"
	"time"

	"trusted-swap-sol/internal/types"

	"github.com/redis/go-redis/v9"
)

// Cache 记录已经提交执行的交易签名，用于拒绝重复交易
type Cache interface {
	// CheckAndMark 原子地检查并标记签名：首次出现返回 true，已存在返回 false
	CheckAndMark(ctx context.Context, signature types.Hash) (bool, error)
}

// 后端类型
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendTiered = "tiered" // 本地 LRU + Redis
)

const (
	defaultSize = 100_000
	defaultTTL  = 24 * time.Hour
)

type Options struct {
	Backend string
	Size    int           // 本地缓存容量
	TTL     time.Duration // Redis key 过期时间
	Redis   *redis.Client // redis / tiered 后端必填
}

// New 按配置创建状态缓存
func New(opt Options) (Cache, error) {
	if opt.Size <= 0 {
		opt.Size = defaultSize
	}
	if opt.TTL <= 0 {
		opt.TTL = defaultTTL
	}

	switch opt.Backend {
	case "", BackendMemory:
		return NewMemoryCache(opt.Size)
	case BackendRedis:
		if opt.Redis == nil {
			return nil, fmt.Errorf("status cache backend %q requires a redis client", opt.Backend)
		}
		return NewRedisCache(opt.Redis, opt.TTL), nil
	case BackendTiered:
		if opt.Redis == nil {
			return nil, fmt.Errorf("status cache backend %q requires a redis client", opt.Backend)
		}
		local, err := NewMemoryCache(opt.Size)
		if err != nil {
			return nil, err
		}
		return NewTieredCache(local, NewRedisCache(opt.Redis, opt.TTL)), nil
	default:
		return nil, fmt.Errorf("unknown status cache backend %q", opt.Backend)
	}
}
