package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// =============================================================================
// 🗂️ 目录存储
// =============================================================================

// StoreConfig 目录存储配置。
type StoreConfig struct {
	// 缓存副本的有效期，过期后下一次读取触发同步重取
	TTL time.Duration `yaml:"ttl" json:"ttl"`

	// 跳过模式校验（降级运行）
	Passthrough bool `yaml:"passthrough" json:"passthrough"`

	// 两次上游重取之间的最小间隔。TTL 抖动时宁可继续用旧副本，
	// 也不向上游发请求风暴
	MinRefreshInterval time.Duration `yaml:"min_refresh_interval" json:"min_refresh_interval"`
}

// DefaultStoreConfig 返回默认配置。
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		TTL:                10 * time.Minute,
		Passthrough:        false,
		MinRefreshInterval: 5 * time.Second,
	}
}

// Store 持有目录的缓存副本。
//
// 副本在 TTL 内直接命中；过期后由下一次 Records 调用同步重取。
// 并发的重取请求通过 singleflight 合并为一次在途拉取。
// Version 在每次成功换入新副本时递增，供上层判断是否需要重建索引。
type Store struct {
	fetch   FetchFunc
	config  StoreConfig
	clock   func() time.Time
	cache   *RedisCache
	limiter *rate.Limiter
	logger  *zap.Logger

	sf singleflight.Group

	mu        sync.RWMutex
	records   []SkillRecord
	fetchedAt time.Time
	version   uint64
}

// NewStore 创建目录存储。fetch 不可为 nil。
func NewStore(fetch FetchFunc, config StoreConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if config.MinRefreshInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(config.MinRefreshInterval), 1)
	}
	return &Store{
		fetch:   fetch,
		config:  config,
		clock:   time.Now,
		limiter: limiter,
		logger:  logger.With(zap.String("component", "catalog_store")),
	}
}

// WithClock 注入时钟，测试用。
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// WithRedisCache 挂接共享缓存: 多实例部署时先查 Redis 再打上游。
func (s *Store) WithRedisCache(cache *RedisCache) *Store {
	s.cache = cache
	return s
}

// Records 返回当前目录副本与版本号，必要时先做同步重取。
// 已有副本时的重取失败降级为继续使用旧副本。
func (s *Store) Records(ctx context.Context) ([]SkillRecord, uint64, error) {
	s.mu.RLock()
	fresh := s.records != nil && s.clock().Sub(s.fetchedAt) < s.config.TTL
	records, version := s.records, s.version
	s.mu.RUnlock()

	if fresh {
		return records, version, nil
	}

	if err := s.Refresh(ctx, false); err != nil {
		s.mu.RLock()
		records, version = s.records, s.version
		s.mu.RUnlock()
		if records != nil {
			s.logger.Warn("catalog refresh failed, serving stale copy", zap.Error(err))
			return records, version, nil
		}
		return nil, 0, err
	}

	s.mu.RLock()
	records, version = s.records, s.version
	s.mu.RUnlock()
	return records, version, nil
}

// Refresh 重取目录并换入新副本。force 为 false 时受最小重取间隔约束:
// 已有副本且间隔未到则直接返回。并发调用共享一次在途拉取。
func (s *Store) Refresh(ctx context.Context, force bool) error {
	if !force && s.limiter != nil {
		s.mu.RLock()
		hasCopy := s.records != nil
		s.mu.RUnlock()
		if hasCopy && !s.limiter.Allow() {
			return nil
		}
	}

	_, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		return nil, s.doRefresh(ctx)
	})
	return err
}

func (s *Store) doRefresh(ctx context.Context) error {
	records, fromCache, err := s.fetchRecords(ctx)
	if err != nil {
		return err
	}

	if !s.config.Passthrough {
		if errs := Validate(records); errs != nil {
			return fmt.Errorf("refuse to swap in invalid catalog: %w", errs)
		}
	}
	records = Deduplicate(records)

	s.mu.Lock()
	s.records = records
	s.fetchedAt = s.clock()
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Info("catalog refreshed",
		zap.Int("skills", len(records)),
		zap.Uint64("version", version),
		zap.Bool("from_shared_cache", fromCache),
	)
	return nil
}

func (s *Store) fetchRecords(ctx context.Context) (records []SkillRecord, fromCache bool, err error) {
	if s.cache != nil {
		records, err = s.cache.Get(ctx)
		if err == nil {
			return records, true, nil
		}
		if !IsCacheMiss(err) {
			s.logger.Warn("shared catalog cache unavailable", zap.Error(err))
		}
	}

	records, err = s.fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, records); err != nil {
			s.logger.Warn("failed to populate shared catalog cache", zap.Error(err))
		}
	}
	return records, false, nil
}

// Invalidate 使当前副本立即过期，下一次读取会触发重取。
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
}

// Version 返回当前副本版本号，0 表示尚未加载。
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len 返回当前副本的技能数。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
