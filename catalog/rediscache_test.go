package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	config := DefaultRedisCacheConfig()
	config.Addr = mr.Addr()
	config.TTL = time.Minute

	cache, err := NewRedisCache(config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestRedisCacheMissOnEmptyKey(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	records := []SkillRecord{
		{ID: "scanpy", Name: "单细胞分析", Category: "science", Triggers: []string{"scrna"}},
		{ID: "docker-deploy", Name: "Docker Deploy", Category: "devops", Triggers: []string{"docker"}},
	}
	require.NoError(t, cache.Set(ctx, records))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "单细胞分析", got[0].Name)
	assert.Equal(t, []string{"docker"}, got[1].Triggers)
}

func TestRedisCacheEntryExpires(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []SkillRecord{validRecord("a")}))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx)
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCacheRejectsCorruptPayload(t *testing.T) {
	cache, mr := newTestRedisCache(t)

	require.NoError(t, mr.Set(cache.config.Key, "not json"))

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
	assert.Contains(t, err.Error(), "decode cached catalog")
}

func TestNewRedisCacheFailsWhenUnreachable(t *testing.T) {
	config := DefaultRedisCacheConfig()
	config.Addr = "127.0.0.1:1"

	_, err := NewRedisCache(config, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestStoreSharesCatalogThroughRedisCache(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	// 第一个实例打上游并回填共享缓存
	fetch, calls := countingFetcher([]SkillRecord{validRecord("a"), validRecord("b")})
	first := NewStore(fetch, StoreConfig{TTL: time.Minute}, nil).WithRedisCache(cache)
	require.NoError(t, first.Refresh(ctx, true))
	require.Equal(t, int64(1), calls.Load())

	// 第二个实例的上游彻底不可用，仍能从共享缓存起动
	failing := func(ctx context.Context) ([]SkillRecord, error) {
		return nil, errors.New("upstream down")
	}
	second := NewStore(failing, StoreConfig{TTL: time.Minute}, nil).WithRedisCache(cache)

	records, version, err := second.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, uint64(1), version)
}
