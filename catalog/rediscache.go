package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss 共享缓存未命中。
var ErrCacheMiss = fmt.Errorf("catalog cache miss")

// IsCacheMiss 判断是否为缓存未命中错误。
func IsCacheMiss(err error) bool {
	return err == ErrCacheMiss
}

// RedisCacheConfig 共享目录缓存配置。
type RedisCacheConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Key      string        `yaml:"key" json:"key"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// DefaultRedisCacheConfig 返回默认配置。
func DefaultRedisCacheConfig() RedisCacheConfig {
	return RedisCacheConfig{
		Addr: "localhost:6379",
		Key:  "skillrouter:catalog",
		TTL:  10 * time.Minute,
	}
}

// RedisCache 基于 Redis 的目录共享缓存。
// 多实例部署时让所有实例共享一次上游拉取；单实例可以完全不挂接。
type RedisCache struct {
	client *redis.Client
	config RedisCacheConfig
	logger *zap.Logger
}

// NewRedisCache 创建共享缓存并探活。
func NewRedisCache(config RedisCacheConfig, logger *zap.Logger) (*RedisCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: config,
		logger: logger.With(zap.String("component", "catalog_cache")),
	}, nil
}

// Get 读取缓存的目录副本。未命中返回 ErrCacheMiss。
func (c *RedisCache) Get(ctx context.Context) ([]SkillRecord, error) {
	val, err := c.client.Get(ctx, c.config.Key).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}

	var records []SkillRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, fmt.Errorf("decode cached catalog: %w", err)
	}
	return records, nil
}

// Set 写入目录副本，带 TTL。
func (c *RedisCache) Set(ctx context.Context, records []SkillRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode catalog for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.config.Key, data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

// Close 关闭 Redis 连接。
func (c *RedisCache) Close() error {
	return c.client.Close()
}
