// Package skillrouter provides a top-level convenience entry point for
// building the skill routing service with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/skillrouter"
//
//	svc, err := skillrouter.New(skillrouter.WithCatalogFile("skills.json"))
//	svc, err := skillrouter.New(skillrouter.WithCatalogURL("https://example.com/skills.json"))
//
// This wires the catalog store, ranking pipeline and activation manager
// from a single Config; use the sub-packages directly when finer control
// is needed.
package skillrouter

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BaSui01/skillrouter/activation"
	"github.com/BaSui01/skillrouter/catalog"
	"github.com/BaSui01/skillrouter/config"
	"github.com/BaSui01/skillrouter/internal/metrics"
	"github.com/BaSui01/skillrouter/service"
)

// Option 调整构建参数。
type Option func(*builder)

type builder struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry prometheus.Registerer
}

// WithConfig 使用完整配置。
func WithConfig(cfg *config.Config) Option {
	return func(b *builder) { b.cfg = cfg }
}

// WithCatalogFile 从本地 JSON 文件加载目录。
func WithCatalogFile(path string) Option {
	return func(b *builder) { b.cfg.Catalog.Path = path }
}

// WithCatalogURL 从远端端点拉取目录。
func WithCatalogURL(url string) Option {
	return func(b *builder) { b.cfg.Catalog.URL = url }
}

// WithActivationDir 覆盖激活目录。
func WithActivationDir(dir string) Option {
	return func(b *builder) { b.cfg.Activation.Dir = dir }
}

// WithLogger 注入 logger，默认 Nop。
func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

// WithMetricsRegistry 注册 prometheus 指标到给定 registry。
// 不设置则不收集指标。
func WithMetricsRegistry(registry prometheus.Registerer) Option {
	return func(b *builder) { b.registry = registry }
}

// New 按配置组装 service.Service。
func New(opts ...Option) (*service.Service, error) {
	b := &builder{cfg: config.DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	cfg := b.cfg

	var fetch catalog.FetchFunc
	switch {
	case cfg.Catalog.Path != "":
		fetch = catalog.FileFetcher(cfg.Catalog.Path)
	case cfg.Catalog.URL != "":
		fetch = catalog.HTTPFetcher(cfg.Catalog.URL, nil)
	default:
		return nil, fmt.Errorf("skillrouter: catalog path or url is required")
	}

	store := catalog.NewStore(fetch, catalog.StoreConfig{
		TTL:                cfg.Catalog.TTL,
		Passthrough:        cfg.Catalog.Passthrough,
		MinRefreshInterval: cfg.Catalog.MinRefreshInterval,
	}, b.logger)

	if cfg.Catalog.Redis.Enabled {
		cache, err := catalog.NewRedisCache(catalog.RedisCacheConfig{
			Addr:     cfg.Catalog.Redis.Addr,
			Password: cfg.Catalog.Redis.Password,
			DB:       cfg.Catalog.Redis.DB,
			Key:      cfg.Catalog.Redis.Key,
			TTL:      cfg.Catalog.Redis.TTL,
		}, b.logger)
		if err != nil {
			return nil, fmt.Errorf("skillrouter: %w", err)
		}
		store.WithRedisCache(cache)
	}

	validator := activation.DefaultValidator()
	if len(cfg.Activation.AllowedRoots) > 0 || len(cfg.Activation.BlockedRoots) > 0 {
		validator = activation.NewValidator(
			append(activation.DefaultAllowedRoots(), cfg.Activation.AllowedRoots...),
			append(activation.DefaultBlockedRoots(), cfg.Activation.BlockedRoots...),
		)
	}
	manager := activation.NewManager(cfg.Activation.Dir, validator, b.logger)

	var collector *metrics.Collector
	if b.registry != nil {
		collector = metrics.NewCollector("skillrouter", b.registry, b.logger)
	}

	return service.New(service.Options{
		Store:        store,
		Manager:      manager,
		Collector:    collector,
		Logger:       b.logger,
		SkillsRoot:   cfg.Activation.SkillsRoot,
		DefaultLimit: cfg.Search.DefaultLimit,
	})
}
