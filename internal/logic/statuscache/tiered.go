package statuscache

import (
	"context"

	"trusted-swap-sol/internal/types"
)

// TieredCache 本地 LRU 挡在 Redis 前面：
//   - 本地命中，直接判定为重复
//   - 否则以 Redis 结果为准，并回填本地
type TieredCache struct {
	local  *MemoryCache
	remote Cache
}

func NewTieredCache(local *MemoryCache, remote Cache) *TieredCache {
	return &TieredCache{local: local, remote: remote}
}

func (t *TieredCache) CheckAndMark(ctx context.Context, signature types.Hash) (bool, error) {
	if t.local.Contains(signature) {
		return false, nil
	}
	fresh, err := t.remote.CheckAndMark(ctx, signature)
	if err != nil {
		return false, err
	}
	t.local.Mark(signature)
	return fresh, nil
}
