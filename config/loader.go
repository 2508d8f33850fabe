package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Loader 配置加载器。
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader 创建加载器，默认环境变量前缀 SKILLROUTER。
func NewLoader() *Loader {
	return &Loader{envPrefix: "SKILLROUTER"}
}

// WithConfigPath 指定 YAML 配置文件路径。
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 指定环境变量前缀。
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load 按 默认值 → YAML → 环境变量 的优先级加载配置。
// 未指定配置文件时跳过 YAML 层；指定了但文件不存在则报错。
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.configPath, err)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖。测试隔离与多租户部署依赖
// <PREFIX>_ACTIVATION_DIR 覆盖激活目录。
func (l *Loader) applyEnv(cfg *Config) error {
	get := func(key string) (string, bool) {
		return os.LookupEnv(l.envPrefix + "_" + key)
	}

	if v, ok := get("ACTIVATION_DIR"); ok {
		cfg.Activation.Dir = v
	}
	if v, ok := get("SKILLS_ROOT"); ok {
		cfg.Activation.SkillsRoot = v
	}
	if v, ok := get("CATALOG_PATH"); ok {
		cfg.Catalog.Path = v
	}
	if v, ok := get("CATALOG_URL"); ok {
		cfg.Catalog.URL = v
	}
	if v, ok := get("CATALOG_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s_CATALOG_TTL: %w", l.envPrefix, err)
		}
		cfg.Catalog.TTL = d
	}
	if v, ok := get("CATALOG_PASSTHROUGH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s_CATALOG_PASSTHROUGH: %w", l.envPrefix, err)
		}
		cfg.Catalog.Passthrough = b
	}
	if v, ok := get("REDIS_ADDR"); ok {
		cfg.Catalog.Redis.Addr = v
		cfg.Catalog.Redis.Enabled = true
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	return nil
}

// BuildLogger 按日志配置构建 zap logger。
func (c LogConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	var zc zap.Config
	if strings.EqualFold(c.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
