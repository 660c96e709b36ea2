package statuscache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"trusted-swap-sol/internal/types"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "127.0.0.1:6379"

func sig(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

// newTestRedis 连接本地 Redis，不可用时跳过
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", testRedisAddr, 200*time.Millisecond)
	if err != nil {
		t.Skipf("redis not available at %s: %v", testRedisAddr, err)
	}
	_ = conn.Close()

	rdb := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	require.NoError(t, err)

	fresh, err := c.CheckAndMark(ctx, sig(1))
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = c.CheckAndMark(ctx, sig(1))
	require.NoError(t, err)
	assert.False(t, fresh)

	// 容量为 2，第三个签名淘汰最旧的
	_, _ = c.CheckAndMark(ctx, sig(2))
	_, _ = c.CheckAndMark(ctx, sig(3))
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains(sig(1)))

	_, err = NewMemoryCache(0)
	assert.Error(t, err)
}

type fakeRemote struct {
	calls int
	seen  map[types.Hash]bool
	err   error
}

func (f *fakeRemote) CheckAndMark(_ context.Context, s types.Hash) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.seen[s] {
		return false, nil
	}
	f.seen[s] = true
	return true, nil
}

func TestTieredCache(t *testing.T) {
	ctx := context.Background()
	local, err := NewMemoryCache(8)
	require.NoError(t, err)
	remote := &fakeRemote{seen: map[types.Hash]bool{sig(9): true}}
	c := NewTieredCache(local, remote)

	fresh, err := c.CheckAndMark(ctx, sig(1))
	require.NoError(t, err)
	assert.True(t, fresh)

	// 本地命中不访问远端
	fresh, err = c.CheckAndMark(ctx, sig(1))
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, 1, remote.calls)

	// 其他进程已标记过的签名
	fresh, err = c.CheckAndMark(ctx, sig(9))
	require.NoError(t, err)
	assert.False(t, fresh)

	remote.err = errors.New("down")
	_, err = c.CheckAndMark(ctx, sig(2))
	assert.Error(t, err)
	assert.False(t, local.Contains(sig(2)))
}

func TestNew(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(Options{Backend: BackendRedis})
	assert.Error(t, err)
	_, err = New(Options{Backend: BackendTiered})
	assert.Error(t, err)
	_, err = New(Options{Backend: "etcd"})
	assert.Error(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer rdb.Close()
	c, err = New(Options{Backend: BackendTiered, Redis: rdb})
	require.NoError(t, err)
	assert.IsType(t, &TieredCache{}, c)
}

func TestRedisCache(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisCache(rdb, time.Minute)

	s := sig(byte(time.Now().UnixNano()))
	require.NoError(t, c.Forget(ctx, s))
	t.Cleanup(func() { _ = c.Forget(ctx, s) })

	fresh, err := c.CheckAndMark(ctx, s)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = c.CheckAndMark(ctx, s)
	require.NoError(t, err)
	assert.False(t, fresh)

	ttl, err := rdb.TTL(ctx, c.getKey(s)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
