package statuscache

import (
	"context"
	"fmt"
	"sync"

	"trusted-swap-sol/internal/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache 进程内的有界签名缓存，超出容量时淘汰最久未使用的签名
type MemoryCache struct {
	mu    sync.Mutex
	cache *lru.Cache[types.Hash, struct{}]
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	c, err := lru.New[types.Hash, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryCache{cache: c}, nil
}

func (m *MemoryCache) CheckAndMark(_ context.Context, signature types.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cache.Contains(signature) {
		return false, nil
	}
	m.cache.Add(signature, struct{}{})
	return true, nil
}

// Contains 只查询不标记
func (m *MemoryCache) Contains(signature types.Hash) bool {
	return m.cache.Contains(signature)
}

// Mark 只标记不查询
func (m *MemoryCache) Mark(signature types.Hash) {
	m.cache.Add(signature, struct{}{})
}

func (m *MemoryCache) Len() int {
	return m.cache.Len()
}
